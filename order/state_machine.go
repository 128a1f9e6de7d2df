package order

import (
	"fmt"

	"digitex-connector/wire"
)

// StateTransition 状态转换
type StateTransition struct {
	From wire.Status
	To   wire.Status
}

// StateMachine 订单状态机。交易所是状态的唯一来源，
// 账本只用它识别终态并记录不合常理的跳转，不拒绝回报。
type StateMachine struct {
	transitions map[StateTransition]bool
}

// NewStateMachine 创建新的状态机
func NewStateMachine() *StateMachine {
	sm := &StateMachine{
		transitions: make(map[StateTransition]bool),
	}
	sm.initializeTransitions()
	return sm
}

// initializeTransitions 初始化所有合法的状态转换
func (sm *StateMachine) initializeTransitions() {
	legalTransitions := []StateTransition{
		// 本地创建、等待交易所确认
		{wire.StatusPending, wire.StatusAccepted},
		{wire.StatusPending, wire.StatusRejected},
		{wire.StatusPending, wire.StatusPartial},
		{wire.StatusPending, wire.StatusFilled},
		{wire.StatusPending, wire.StatusCanceled},

		{wire.StatusAccepted, wire.StatusPartial},
		{wire.StatusAccepted, wire.StatusFilled},
		{wire.StatusAccepted, wire.StatusCanceled},
		{wire.StatusAccepted, wire.StatusExpired},
		{wire.StatusAccepted, wire.StatusTerminated},

		{wire.StatusPartial, wire.StatusPartial}, // 多次部分成交
		{wire.StatusPartial, wire.StatusFilled},
		{wire.StatusPartial, wire.StatusCanceled},
		{wire.StatusPartial, wire.StatusExpired},
		{wire.StatusPartial, wire.StatusTerminated},

		// 全量对账时本地多出的订单
		{wire.StatusPending, wire.StatusUndefined},
		{wire.StatusAccepted, wire.StatusUndefined},
		{wire.StatusPartial, wire.StatusUndefined},
	}

	for _, t := range legalTransitions {
		sm.transitions[t] = true
	}
}

// ValidateTransition 验证状态转换是否合法
func (sm *StateMachine) ValidateTransition(from, to wire.Status) error {
	// 相同状态允许（幂等性）
	if from == to {
		return nil
	}
	// 从交易所回报构造的订单初始状态未知，任何转换都接受
	if from == wire.StatusUndefined {
		return nil
	}
	if !sm.transitions[StateTransition{From: from, To: to}] {
		return fmt.Errorf("illegal state transition: %s -> %s", from, to)
	}
	return nil
}

// AllowedTransitions 返回当前状态所有合法的目标状态
func (sm *StateMachine) AllowedTransitions(current wire.Status) []wire.Status {
	allowed := make([]wire.Status, 0)
	for transition := range sm.transitions {
		if transition.From == current {
			allowed = append(allowed, transition.To)
		}
	}
	return allowed
}

// IsFinalState 判断是否是终态
func IsFinalState(status wire.Status) bool {
	switch status {
	case wire.StatusFilled, wire.StatusCanceled, wire.StatusRejected,
		wire.StatusExpired, wire.StatusTerminated:
		return true
	default:
		return false
	}
}

// IsActiveState 判断是否是活跃状态（可能产生成交）
func IsActiveState(status wire.Status) bool {
	switch status {
	case wire.StatusPending, wire.StatusAccepted, wire.StatusPartial:
		return true
	default:
		return false
	}
}

// GetStateDescription 获取状态描述
func GetStateDescription(status wire.Status) string {
	descriptions := map[wire.Status]string{
		wire.StatusUndefined:  "状态未知",
		wire.StatusPending:    "订单待确认",
		wire.StatusAccepted:   "订单已接受",
		wire.StatusPartial:    "订单部分成交",
		wire.StatusFilled:     "订单完全成交",
		wire.StatusCanceled:   "订单已撤销",
		wire.StatusRejected:   "订单被拒绝",
		wire.StatusExpired:    "订单已过期",
		wire.StatusTerminated: "订单已终止",
	}

	if desc, ok := descriptions[status]; ok {
		return desc
	}
	return "未知状态"
}
