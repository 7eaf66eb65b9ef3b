package game

import (
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"

	"go.uber.org/zap"
)

// GameMachine 是会话状态机，负责驱动阶段推进并串行化一切状态变更
// 访客请求、定时器事件和连接关闭事件都汇入同一个事件循环，
// 每次变更都是针对唯一状态句柄的原子"读取-修改-广播"步骤
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler
	// 所有访客请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，用于通知状态机退出事件循环
	doneCh chan struct{}

	createdAt time.Time
}

func NewGameMachine(roomID string, playerCount int, narr narrator.Narrator, doneCh chan struct{}) *GameMachine {
	ctx := &GameContext{
		State: NewSessionState(roomID, playerCount),
		Narr:  narr,
		TmoCh: make(chan RequestWrapper, 64),
	}

	reqCh := make(chan RequestWrapper, 64)

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewLobbyStageHandler(),
		reqCh:     reqCh,
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	gm.handler.SetOnSwitch(func(nextStage string) {
		gm.ctx.State.Phase = nextStage
	})

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) Start() {
	// 执行初始 handler 的 OnEnter
	gm.handler.OnEnter(gm.ctx)

	// 进入事件循环
	for {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到访客请求",
				zap.String("room_id", gm.ctx.State.RoomID),
				zap.String("request_type", req.ReqType),
			)
		case req = <-gm.ctx.TmoCh:
			zap.L().Debug(
				"接收到超时事件",
				zap.String("room_id", gm.ctx.State.RoomID),
			)
		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束会话状态机",
				zap.String("room_id", gm.ctx.State.RoomID),
			)
			return
		}

		// 处理请求；无效请求只记录日志，不变更状态也不广播
		err := gm.handler.OnHandle(gm.ctx, req)
		if err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)
		}

		// 房主掉线是致命的，强制进入结束阶段
		if gm.ctx.HostGone && gm.ctx.State.Phase != PHASE_GAME_OVER {
			gm.ctx.State.Phase = PHASE_GAME_OVER
		}

		// 阶段可能连续切换多次（例如 OnEnter 里直接跳到下一阶段），
		// 循环直到状态和处理器一致
		for gm.ctx.State.Phase != gm.handler.Stage() {
			gm.switchStage()
			gm.handler.OnEnter(gm.ctx)
		}

		if gm.ctx.State.Phase == PHASE_GAME_OVER {
			break
		}
	}

	// 会话结束后协程自动退出，释放资源
	zap.L().Info(
		"会话状态机已结束",
		zap.String("room_id", gm.ctx.State.RoomID),
	)
}

func (gm *GameMachine) switchStage() {
	// 执行当前 handler 的 OnExit
	gm.handler.OnExit(gm.ctx)

	// 根据新状态创建对应的 handler
	var newHandler StageHandler

	switch gm.ctx.State.Phase {
	case PHASE_LOBBY:
		newHandler = NewLobbyStageHandler()
	case PHASE_ROLE_REVEAL:
		newHandler = NewRoleRevealStageHandler()
	case PHASE_NIGHT_INTRO:
		newHandler = NewNightIntroStageHandler()
	case PHASE_NIGHT_ACTIVE:
		newHandler = NewNightActiveStageHandler()
	case PHASE_DAY_DISCUSSION:
		newHandler = NewDayDiscussionStageHandler()
	case PHASE_DAY_VOTING:
		newHandler = NewDayVotingStageHandler()
	case PHASE_DAY_RESULTS:
		newHandler = NewDayResultsStageHandler()
	case PHASE_GAME_OVER:
		newHandler = NewGameOverStageHandler()
	default:
		zap.L().Error(
			"未知的会话阶段",
			zap.String("phase", gm.ctx.State.Phase),
		)
		return
	}

	newHandler.SetOnSwitch(func(nextStage string) {
		gm.ctx.State.Phase = nextStage
	})

	gm.handler = newHandler
}

func (gm *GameMachine) IsFinished() bool {
	return gm.ctx.State.Phase == PHASE_GAME_OVER
}

func (gm *GameMachine) RoomID() string {
	return gm.ctx.State.RoomID
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}
