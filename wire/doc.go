// Package wire implements the exchange's binary message format.
//
// Frames use the protobuf wire encoding. Envelope fields:
//
//	1  serial      varint (always 0 on outbound frames)
//	2  market_id   varint
//	3  trader_id   varint
//	4  client_id   bytes, 16 octets in exchange UUID order
//	5  timestamp   zigzag varint, microseconds since the Unix epoch
//	6  error_code  varint
//	10+ content    one length-delimited message, field = 10 + kind offset
//
// Decimals are sub-messages {1: value zigzag int64, 2: scale varint} meaning
// value * 10^-scale. Zero-valued fields are omitted.
package wire
