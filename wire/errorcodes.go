package wire

// ErrorCode is the exchange error carried in an envelope. Zero means no error.
type ErrorCode uint32

const (
	CodeNone ErrorCode = iota
	CodeUnidentified
	CodeNotImplemented
	CodeUUIDAlreadyExists
	CodeCurrencySizeNotSupported
	CodeSystem
	CodeOrderTypeNotSupported
	CodeOrderSideNotSupported
	CodeOrderDurationNotSupported
	CodeAllocationFailed
	CodeUUIDDoesNotExist
	CodeInternal
	CodeFilesystem
	CodeInvalidMarketID
	CodeInvalidTraderID
	CodeInvalidOrderType
	CodeInvalidOrderSide
	CodeInvalidOrderDuration
	CodeInvalidLeverage
	CodeInvalidPrice
	CodeInvalidQuantity
	CodePermissionDenied
	CodeNoMarketPrice
	CodePriceDoesNotMatch
	CodeSideDoesNotMatch
	CodeTypeDoesNotMatch
	CodeInvalidCurrencyID
	CodeNotEnoughBalance
	CodeOverflow
	CodeInvalidScale
	CodeLossOfPrecision
	CodeInvalidStopLossPrice
	CodeInvalidTakeProfitPrice
	CodeUnidentifiedAMQP
	CodeInvalidContractID
	CodeRateLimitExceeded
	CodeNoContracts
	CodeNoOpposingOrders
	CodeFileNotFound
	CodeRestrictedTraderID
	CodePriceWorseLiquidation
	CodeInvalidBalance
	CodeInvalidPosition
	CodeInvalidNewTraderID
	CodeUnsupportedVersion
	CodeTournamentInProgress
	CodeNotMainTraderID
	CodeInvalidInitialBalance
	CodeInvalidMaxPosition
	CodeInvalidStartTimestamp
	CodeInvalidDuration
	CodeRunFinished
	CodeTransferDisabled
	CodeMaxQuantityExceeded
	CodePnLTooNegative
	CodeOrderWouldBeInvalid
	CodeInvalidValueCode
	CodeInvalidValue
	CodeTradingSuspended
	CodeWithdrawalSuspended
	CodeDepositsSuspended
	CodeSpotPriceExcursion
	CodeInvalidSettlementPrice
	CodeCannotBeFilled
	CodeInvalidMessage
	CodeTooManyDelayedActions
	CodeOperationFailed
	CodeRiskCheckFailed
	CodeTooManyOrders
)

var errorCodeNames = [...]string{
	"NONE",
	"UNIDENTIFIED",
	"NOT_IMPLEMENTED",
	"UUID_ALREADY_EXISTS",
	"CURRENCY_SIZE_NOT_SUPPORTED",
	"SYSTEM",
	"ORDER_TYPE_NOT_SUPPORTED",
	"ORDER_SIDE_NOT_SUPPORTED",
	"ORDER_DURATION_NOT_SUPPORTED",
	"ALLOCATION_FAILED",
	"UUID_DOES_NOT_EXIST",
	"INTERNAL",
	"FILESYSTEM",
	"INVALID_MARKET_ID",
	"INVALID_TRADER_ID",
	"INVALID_ORDER_TYPE",
	"INVALID_ORDER_SIDE",
	"INVALID_ORDER_DURATION",
	"INVALID_LEVERAGE",
	"INVALID_PRICE",
	"INVALID_QUANTITY",
	"PERMISSION_DENIED",
	"NO_MARKET_PRICE",
	"PRICE_DOES_NOT_MATCH",
	"SIDE_DOES_NOT_MATCH",
	"TYPE_DOES_NOT_MATCH",
	"INVALID_CURRENCY_ID",
	"NOT_ENOUGH_BALANCE",
	"OVERFLOW",
	"INVALID_SCALE",
	"LOSS_OF_PRECISION",
	"INVALID_STOP_LOSS_PRICE",
	"INVALID_TAKE_PROFIT_PRICE",
	"UNIDENTIFIED_AMQP",
	"INVALID_CONTRACT_ID",
	"RATE_LIMIT_EXCEEDED",
	"NO_CONTRACTS",
	"NO_OPPOSING_ORDERS",
	"FILE_NOT_FOUND",
	"RESTRICTED_TRADER_ID",
	"PRICE_WORSE_LIQUIDATION",
	"INVALID_BALANCE",
	"INVALID_POSITION",
	"INVALID_NEW_TRADER_ID",
	"UNSUPPORTED_VERSION",
	"TOURNAMENT_IN_PROGRESS",
	"NOT_MAIN_TRADER_ID",
	"INVALID_INITIAL_BALANCE",
	"INVALID_MAX_POSITION",
	"INVALID_START_TIMESTAMP",
	"INVALID_DURATION",
	"RUN_FINISHED",
	"TRANSFER_DISABLED",
	"MAX_QUANTITY_EXCEEDED",
	"PNL_TOO_NEGATIVE",
	"ORDER_WOULD_BE_INVALID",
	"INVALID_VALUE_CODE",
	"INVALID_VALUE",
	"TRADING_SUSPENDED",
	"WITHDRAWAL_SUSPENDED",
	"DEPOSITS_SUSPENDED",
	"SPOT_PRICE_EXCURSION",
	"INVALID_SETTLEMENT_PRICE",
	"CANNOT_BE_FILLED",
	"INVALID_MESSAGE",
	"TOO_MANY_DELAYED_ACTIONS",
	"OPERATION_FAILED",
	"RISK_CHECK_FAILED",
	"TOO_MANY_ORDERS",
}

func (c ErrorCode) String() string {
	if int(c) < len(errorCodeNames) {
		return errorCodeNames[c]
	}
	return "UNKNOWN"
}

// IsError reports whether the code signals a failure.
func (c ErrorCode) IsError() bool { return c != CodeNone }
