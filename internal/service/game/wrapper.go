package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_HELLO        = "Hello"
	REQ_CLAIM_SEAT   = "ClaimSeat"
	REQ_KICK         = "Kick"
	REQ_VOTE         = "Vote"
	REQ_PHASE_CHANGE = "PhaseChange"
	REQ_NIGHT_ACTION = "NightAction"
	REQ_RESET_GAME   = "ResetGame"
	REQ_TIMEOUT      = "Timeout"
	REQ_LEAVE        = "Leave"
)

// RequestWrapper 是访客消息的统一信封
// NativeData 供服务端内部构造的请求使用（例如携带通道的 Hello 和 Leave），
// 不参与序列化
type RequestWrapper struct {
	ReqType    string          `json:"request_type"`
	Data       json.RawMessage `json:"data"`
	NativeData any             `json:"-"`
}

func TryUnwrapHelloRequest(wrapper RequestWrapper) *HelloRequest {
	if wrapper.ReqType != REQ_HELLO {
		return nil
	}

	if native, ok := wrapper.NativeData.(*HelloRequest); ok {
		return native
	}

	var helloRequest HelloRequest

	err := json.Unmarshal(wrapper.Data, &helloRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap HelloRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &helloRequest
}

func TryUnwrapClaimSeatRequest(wrapper RequestWrapper) *ClaimSeatRequest {
	if wrapper.ReqType != REQ_CLAIM_SEAT {
		return nil
	}

	var claimSeatRequest ClaimSeatRequest

	err := json.Unmarshal(wrapper.Data, &claimSeatRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap ClaimSeatRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &claimSeatRequest
}

func TryUnwrapKickRequest(wrapper RequestWrapper) *KickRequest {
	if wrapper.ReqType != REQ_KICK {
		return nil
	}

	var kickRequest KickRequest

	err := json.Unmarshal(wrapper.Data, &kickRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap KickRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &kickRequest
}

func TryUnwrapVoteRequest(wrapper RequestWrapper) *VoteRequest {
	if wrapper.ReqType != REQ_VOTE {
		return nil
	}

	var voteRequest VoteRequest

	err := json.Unmarshal(wrapper.Data, &voteRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap VoteRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &voteRequest
}

func TryUnwrapPhaseChangeRequest(wrapper RequestWrapper) *PhaseChangeRequest {
	if wrapper.ReqType != REQ_PHASE_CHANGE {
		return nil
	}

	var phaseChangeRequest PhaseChangeRequest

	err := json.Unmarshal(wrapper.Data, &phaseChangeRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap PhaseChangeRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &phaseChangeRequest
}

func TryUnwrapNightActionRequest(wrapper RequestWrapper) *NightActionRequest {
	if wrapper.ReqType != REQ_NIGHT_ACTION {
		return nil
	}

	var nightActionRequest NightActionRequest

	err := json.Unmarshal(wrapper.Data, &nightActionRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap NightActionRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &nightActionRequest
}

func TryUnwrapResetGameRequest(wrapper RequestWrapper) *ResetGameRequest {
	if wrapper.ReqType != REQ_RESET_GAME {
		return nil
	}

	var resetGameRequest ResetGameRequest

	err := json.Unmarshal(wrapper.Data, &resetGameRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap ResetGameRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &resetGameRequest
}

func TryUnwrapTimeoutRequest(wrapper RequestWrapper) *TimeoutRequest {
	if wrapper.ReqType != REQ_TIMEOUT {
		return nil
	}

	if native, ok := wrapper.NativeData.(*TimeoutRequest); ok {
		return native
	}

	var timeoutRequest TimeoutRequest

	err := json.Unmarshal(wrapper.Data, &timeoutRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap TimeoutRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &timeoutRequest
}

func TryUnwrapLeaveRequest(wrapper RequestWrapper) *LeaveRequest {
	if wrapper.ReqType != REQ_LEAVE {
		return nil
	}

	if native, ok := wrapper.NativeData.(*LeaveRequest); ok {
		return native
	}

	var leaveRequest LeaveRequest

	err := json.Unmarshal(wrapper.Data, &leaveRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap LeaveRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &leaveRequest
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_SYNC_STATE   = "SyncState"
	RESP_NIGHT_REVEAL = "NightReveal"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
