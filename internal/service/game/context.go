package game

import (
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"

	"go.uber.org/zap"
)

// GameContext 持有会话的唯一可写状态
// 所有变更都发生在状态机的事件循环内，定时器只向 TmoCh 投递事件，
// 从不直接修改状态，保证定时器与访客请求串行化
type GameContext struct {
	State *SessionState
	Narr  narrator.Narrator

	// 定时器到期事件通道，由状态机事件循环消费
	TmoCh chan RequestWrapper

	// 房主连接丢失，会话不可恢复，状态机据此强制进入结束阶段
	HostGone bool

	timer *time.Timer
}

// 向所有在线参与者广播响应
// 通道写满视为访客过慢，直接丢弃该条消息：
// 下一次全量快照广播会自动补齐状态
func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	for _, p := range gc.State.Participants {
		if p.RespCh == nil {
			continue
		}

		select {
		case p.RespCh <- resp:
			zap.L().Debug(
				"成功发送广播响应",
				zap.String("participant_id", p.ID),
				zap.String("response_type", resp.RespType),
			)
		default:
			zap.L().Warn(
				"发送广播响应失败：参与者响应通道已满",
				zap.String("participant_id", p.ID),
			)
		}
	}
}

func (gc *GameContext) UnicastResp(participantID string, resp ResponseWrapper) {
	p := gc.State.FindParticipant(participantID)
	if p == nil || p.RespCh == nil {
		zap.L().Warn(
			"无法找到参与者进行单播响应",
			zap.String("participant_id", participantID),
		)
		return
	}

	select {
	case p.RespCh <- resp:
		zap.L().Debug(
			"发送单播响应成功",
			zap.String("participant_id", participantID),
			zap.String("response_type", resp.RespType),
		)
	default:
		zap.L().Warn(
			"发送单播响应失败：参与者响应通道已满",
			zap.String("participant_id", participantID),
		)
	}
}

// BroadcastState 全量广播当前会话状态
// 这是同步协议的唯一手段：不做增量，不做确认，
// 单条消息丢失由下一次快照自愈
// 快照在事件循环内先序列化成不可变字节再投递，
// 写协程拿到的永远是投递时刻的完整状态，后续变更不会渗入
func (gc *GameContext) BroadcastState() {
	snapshot := mustMarshal(SyncStateResponse{State: gc.State})

	gc.BroadcastResp(WrapResponse(RESP_SYNC_STATE, snapshot))
}

func (gc *GameContext) UnicastState(participantID string) {
	snapshot := mustMarshal(SyncStateResponse{State: gc.State})

	gc.UnicastResp(participantID, WrapResponse(RESP_SYNC_STATE, snapshot))
}

// SetTimeout 启动阶段倒计时
// 到期事件携带启动时的阶段和夜晚序号，消费方据此识别并丢弃过期定时器
func (gc *GameContext) SetTimeout(d time.Duration) {
	gc.ClearTimeout()

	gc.State.Countdown = int(d / time.Second)

	phase := gc.State.Phase
	nightIndex := gc.State.NightIndex

	gc.timer = time.AfterFunc(d, func() {
		tmoReq := TimeoutRequest{
			Phase:      phase,
			NightIndex: nightIndex,
		}

		select {
		case gc.TmoCh <- RequestWrapper{ReqType: REQ_TIMEOUT, NativeData: &tmoReq}:
		default:
			zap.L().Warn(
				"投递超时事件失败：超时通道已满",
				zap.String("room_id", gc.State.RoomID),
				zap.String("phase", phase),
			)
		}
	})
}

func (gc *GameContext) ClearTimeout() {
	if gc.timer != nil {
		gc.timer.Stop()
		gc.timer = nil
	}

	gc.State.Countdown = 0
}
