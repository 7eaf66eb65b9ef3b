package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// 会话阶段，强制线性推进，不允许回退
// 唯一的例外是房主在 DayResults 阶段触发 Reset 回到 Lobby：
// 清空单局数据但保留已入座的参与者
// 1. 大厅（Lobby）：参与者连接、入座，房主满员后手动开局
// 2. 亮牌（RoleReveal）：发牌并让每人查看自己的初始角色，定时进入下一阶段
// 3. 入夜（NightIntro）：固定时长的旁白停顿
// 4. 夜晚（NightActive）：按过滤后的唤醒序列依次执行夜晚行动
// 5. 白天讨论（DayDiscussion）：随机指定首位发言者，房主手动结束讨论
// 6. 白天投票（DayVoting）：全员投票完成或房主手动截止
// 7. 结果（DayResults）：计票、判定胜负并公布
// 8. 结束（GameOver）：会话终点，状态机退出
const (
	PHASE_LOBBY          = "Lobby"
	PHASE_ROLE_REVEAL    = "RoleReveal"
	PHASE_NIGHT_INTRO    = "NightIntro"
	PHASE_NIGHT_ACTIVE   = "NightActive"
	PHASE_DAY_DISCUSSION = "DayDiscussion"
	PHASE_DAY_VOTING     = "DayVoting"
	PHASE_DAY_RESULTS    = "DayResults"
	PHASE_GAME_OVER      = "GameOver"
)

// 固定倒计时时长
const (
	REVEAL_COUNTDOWN   = 10 * time.Second
	NIGHT_INTRO_PAUSE  = 8 * time.Second
	DEFAULT_TURN_PAUSE = 7 * time.Second
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 各阶段共用的请求处理：握手、离开、踢人
// 返回 true 表示请求已被消费，阶段处理器不必再处理
func handleCommonRequest(ctx *GameContext, req RequestWrapper) (bool, error) {
	if hello := TryUnwrapHelloRequest(req); hello != nil {
		onParticipantJoin(ctx, hello)
		return true, nil
	}

	if leave := TryUnwrapLeaveRequest(req); leave != nil {
		onParticipantLeave(ctx, leave)
		return true, nil
	}

	if kick := TryUnwrapKickRequest(req); kick != nil {
		removed, err := resolveKick(ctx.State, kick)
		if err != nil {
			return true, err
		}

		// 被踢者的通道关闭后，其写协程自行退出；
		// 其余访客从下一次快照中发现该 ID 消失，据此识别被踢
		if removed.RespCh != nil {
			close(removed.RespCh)
		}

		ctx.BroadcastState()

		return true, nil
	}

	return false, nil
}

func onParticipantJoin(ctx *GameContext, req *HelloRequest) {
	st := ctx.State

	joiner := req.Participant
	if joiner.ID == "" {
		joiner.ID = ShortID()
	}
	joiner.RespCh = req.RespCh

	// 相同 ID 视为断线重连：只替换响应通道并补发快照，状态不变
	if existing := st.FindParticipant(joiner.ID); existing != nil {
		zap.L().Info(
			"检测到相同参与者 ID，执行断线重连",
			zap.String("participant_id", joiner.ID),
			zap.String("participant_name", existing.Name),
		)

		if existing.RespCh != nil {
			close(existing.RespCh)
		}

		existing.RespCh = req.RespCh

		ctx.UnicastState(existing.ID)

		return
	}

	// 第一个连接成功的参与者持有房主标记
	joiner.IsHost = len(st.Participants) == 0
	joiner.Seat = 0
	joiner.Role = ""
	joiner.InitialRole = ""

	st.Participants = append(st.Participants, &joiner)

	appendLog(st, fmt.Sprintf("%s 加入了房间", joiner.Name))

	zap.L().Info(
		"参与者加入会话",
		zap.String("room_id", st.RoomID),
		zap.String("participant_id", joiner.ID),
		zap.Bool("is_host", joiner.IsHost),
	)

	// 握手后立即单播一份快照，保证新连接不会基于残缺状态工作；
	// 随后的全量广播让其他访客看到新参与者
	ctx.UnicastState(joiner.ID)
	ctx.BroadcastState()
}

func onParticipantLeave(ctx *GameContext, req *LeaveRequest) {
	st := ctx.State

	p := st.FindParticipant(req.ParticipantID)
	if p == nil {
		zap.L().Warn(
			"参与者不存在，无法处理离开事件",
			zap.String("participant_id", req.ParticipantID),
		)
		return
	}

	// 通道不匹配说明该连接已被重连顶替，旧连接的关闭不影响现状态
	if p.RespCh != req.RespCh {
		zap.L().Info(
			"检测到被顶替的旧连接关闭，忽略",
			zap.String("participant_id", req.ParticipantID),
		)
		return
	}

	removed := st.RemoveParticipant(req.ParticipantID)
	if removed.RespCh != nil {
		close(removed.RespCh)
	}

	appendLog(st, fmt.Sprintf("%s 离开了房间", removed.Name))

	zap.L().Info(
		"参与者离开会话",
		zap.String("room_id", st.RoomID),
		zap.String("participant_id", removed.ID),
		zap.Bool("is_host", removed.IsHost),
	)

	// 房主掉线对整个会话是致命的：没有故障转移，也没有重新选举
	if removed.IsHost {
		ctx.HostGone = true
	}

	ctx.BroadcastState()
}

// 大厅阶段
type lobbyStageHandler struct {
	onSwitch func(string)
}

func NewLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return PHASE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *GameContext) {
	if line := ctx.Narr.PhaseLine(PHASE_LOBBY); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.BroadcastState()
}

func (lsh *lobbyStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	if req := TryUnwrapClaimSeatRequest(req); req != nil {
		if err := resolveClaimSeat(ctx.State, req); err != nil {
			return err
		}

		ctx.BroadcastState()

		return nil
	}

	if req := TryUnwrapPhaseChangeRequest(req); req != nil {
		if req.Phase != PHASE_ROLE_REVEAL {
			return errors.New("无法切换阶段：大厅只能进入亮牌阶段")
		}

		requester := ctx.State.FindParticipant(req.RequesterID)
		if requester == nil || !requester.IsHost {
			return errors.New("无法开始游戏：只有房主可以开局")
		}

		if len(ctx.State.SeatedParticipants()) != ctx.State.Settings.PlayerCount {
			return errors.New("无法开始游戏：座位尚未坐满")
		}

		lsh.onSwitch(PHASE_ROLE_REVEAL)

		return nil
	}

	return errors.New("无法处理请求：大厅阶段不支持该请求类型")
}

func (lsh *lobbyStageHandler) OnExit(ctx *GameContext) {
}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// 发牌：构建牌堆、均匀洗牌，按座位号顺序配对，余牌进入中央区
// 这是整局唯一的随机分配动作，此后角色只交换、不增减
func dealRoles(ctx *GameContext) error {
	st := ctx.State

	deck, err := BuildDeck(st.Settings.PlayerCount)
	if err != nil {
		return err
	}

	seated := st.SeatedParticipants()
	if len(seated) != st.Settings.PlayerCount {
		return errors.New("无法发牌：入座人数与目标人数不符")
	}

	shuffled := ShuffleDeck(deck)

	for i, p := range seated {
		p.Role = shuffled[i]
		p.InitialRole = shuffled[i]
	}

	st.CenterCards = append(st.CenterCards[:0], shuffled[len(seated):]...)

	appendLog(st, "手牌已发出，请确认自己的初始角色")

	return nil
}

// 亮牌阶段
type roleRevealStageHandler struct {
	onSwitch func(string)
}

func NewRoleRevealStageHandler() *roleRevealStageHandler {
	return &roleRevealStageHandler{}
}

func (rsh *roleRevealStageHandler) Stage() string {
	return PHASE_ROLE_REVEAL
}

func (rsh *roleRevealStageHandler) OnEnter(ctx *GameContext) {
	if err := dealRoles(ctx); err != nil {
		// 开局前置条件已在大厅校验过，这里不应该失败
		zap.L().Error(
			"发牌失败",
			zap.String("room_id", ctx.State.RoomID),
			zap.Error(err),
		)
		return
	}

	if line := ctx.Narr.PhaseLine(PHASE_ROLE_REVEAL); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.SetTimeout(REVEAL_COUNTDOWN)
	ctx.BroadcastState()
}

func (rsh *roleRevealStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		if req.Phase == PHASE_ROLE_REVEAL {
			rsh.onSwitch(PHASE_NIGHT_INTRO)
			return nil
		}
	}

	return errors.New("无法处理请求：亮牌阶段不支持该请求类型")
}

func (rsh *roleRevealStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (rsh *roleRevealStageHandler) SetOnSwitch(onSwitch func(string)) {
	rsh.onSwitch = onSwitch
}

// 入夜阶段，固定时长的旁白停顿
type nightIntroStageHandler struct {
	onSwitch func(string)
}

func NewNightIntroStageHandler() *nightIntroStageHandler {
	return &nightIntroStageHandler{}
}

func (nsh *nightIntroStageHandler) Stage() string {
	return PHASE_NIGHT_INTRO
}

func (nsh *nightIntroStageHandler) OnEnter(ctx *GameContext) {
	if line := ctx.Narr.PhaseLine(PHASE_NIGHT_INTRO); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.SetTimeout(NIGHT_INTRO_PAUSE)
	ctx.BroadcastState()
}

func (nsh *nightIntroStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		if req.Phase == PHASE_NIGHT_INTRO {
			nsh.onSwitch(PHASE_NIGHT_ACTIVE)
			return nil
		}
	}

	return errors.New("无法处理请求：入夜阶段不支持该请求类型")
}

func (nsh *nightIntroStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (nsh *nightIntroStageHandler) SetOnSwitch(onSwitch func(string)) {
	nsh.onSwitch = onSwitch
}

// 夜晚行动阶段
type nightActiveStageHandler struct {
	onSwitch func(string)
}

func NewNightActiveStageHandler() *nightActiveStageHandler {
	return &nightActiveStageHandler{}
}

func (nah *nightActiveStageHandler) Stage() string {
	return PHASE_NIGHT_ACTIVE
}

// 夜晚序列按实际发到手的初始角色过滤一次并固定下来，
// 无人持有的角色整轮跳过，避免空转等待
func filteredNightOrder(st *SessionState) []RoleID {
	order := make([]RoleID, 0)
	for _, role := range FullNightOrder() {
		if len(st.ActorsFor(role)) > 0 {
			order = append(order, role)
		}
	}

	return order
}

func (nah *nightActiveStageHandler) OnEnter(ctx *GameContext) {
	st := ctx.State

	st.NightOrder = filteredNightOrder(st)
	st.NightIndex = 0

	if line := ctx.Narr.PhaseLine(PHASE_NIGHT_ACTIVE); line != "" {
		appendLog(st, line)
	}

	// 本局没有任何夜晚角色时直接天亮
	if len(st.NightOrder) == 0 {
		nah.enterDay(ctx)
		return
	}

	nah.startTurn(ctx)
}

func (nah *nightActiveStageHandler) startTurn(ctx *GameContext) {
	st := ctx.State

	role := st.CurrentNightRole()
	st.FinishedTurn = make(map[string]bool)

	spec, _ := LookupRole(role)
	turnPause := DEFAULT_TURN_PAUSE
	if spec.TurnSeconds > 0 {
		turnPause = time.Duration(spec.TurnSeconds) * time.Second
	}

	zap.L().Debug(
		"夜晚回合开始",
		zap.String("room_id", st.RoomID),
		zap.String("role", string(role)),
		zap.Int("night_index", st.NightIndex),
	)

	ctx.SetTimeout(turnPause)
	ctx.BroadcastState()
}

// 天亮：随机指定一名入座参与者作为首位发言者
func (nah *nightActiveStageHandler) enterDay(ctx *GameContext) {
	st := ctx.State

	seated := st.SeatedParticipants()
	if len(seated) > 0 {
		first := seated[rand.Intn(len(seated))]
		st.FirstSpeakerID = first.ID
		appendLog(st, fmt.Sprintf("天亮了，由 %s 首先发言", first.Name))
	}

	nah.onSwitch(PHASE_DAY_DISCUSSION)
}

// 当前回合的行动者是否全部完成；行动者集合只统计仍然在线的参与者，
// 掉线者在移除时已被清出集合，阶段推进不会被幽灵卡住
func (nah *nightActiveStageHandler) advanceIfTurnDone(ctx *GameContext) {
	st := ctx.State

	actors := st.ActorsFor(st.CurrentNightRole())

	for _, actor := range actors {
		if !st.FinishedTurn[actor.ID] {
			return
		}
	}

	nah.nextTurn(ctx)
}

func (nah *nightActiveStageHandler) nextTurn(ctx *GameContext) {
	st := ctx.State

	st.NightIndex++

	if st.NightIndex >= len(st.NightOrder) {
		nah.enterDay(ctx)
		return
	}

	nah.startTurn(ctx)
}

// 各夜晚行动类型要求的当前行动角色
func requiredNightRole(actionType string) (RoleID, bool) {
	switch actionType {
	case NIGHT_ROBBER_SWAP:
		return ROLE_ROBBER, true
	case NIGHT_TROUBLEMAKER_SWAP:
		return ROLE_TROUBLEMAKER, true
	case NIGHT_DRUNK_SWAP:
		return ROLE_DRUNK, true
	case NIGHT_SEER_VIEW_PLAYER, NIGHT_SEER_VIEW_CENTER:
		return ROLE_SEER, true
	case NIGHT_LONE_WOLF_VIEW:
		return ROLE_WEREWOLF, true
	default:
		return "", false
	}
}

func (nah *nightActiveStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		// 参与者增减可能让当前回合的完成条件立即满足
		nah.advanceIfTurnDone(ctx)
		return err
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		// 只接受为当前阶段、当前回合启动的定时器
		if req.Phase == PHASE_NIGHT_ACTIVE && req.NightIndex == ctx.State.NightIndex {
			nah.nextTurn(ctx)
			return nil
		}

		return nil
	}

	if req := TryUnwrapNightActionRequest(req); req != nil {
		return nah.handleNightAction(ctx, req)
	}

	return errors.New("无法处理请求：夜晚阶段不支持该请求类型")
}

func (nah *nightActiveStageHandler) handleNightAction(ctx *GameContext, req *NightActionRequest) error {
	st := ctx.State
	current := st.CurrentNightRole()

	actor := st.FindParticipant(req.ActorID)
	if actor == nil {
		return errors.New("无法执行夜晚行动：行动者不存在")
	}

	// 确认类行动适用于当前回合的所有行动者（守夜人、爪牙、失眠者等）
	if req.ActionType == NIGHT_CONFIRM {
		if actor.InitialRole != current {
			return errors.New("无法确认行动：当前不是该角色的行动回合")
		}

		if err := resolveConfirmTurn(st, req.ActorID); err != nil {
			return err
		}

		ctx.BroadcastState()
		nah.advanceIfTurnDone(ctx)

		return nil
	}

	required, ok := requiredNightRole(req.ActionType)
	if !ok {
		return errors.New("无法执行夜晚行动：未知的行动类型")
	}

	if current != required {
		return errors.New("无法执行夜晚行动：当前不是该角色的行动回合")
	}

	var (
		reveal *NightRevealResponse
		err    error
	)

	switch req.ActionType {
	case NIGHT_ROBBER_SWAP:
		if len(req.TargetIDs) != 1 {
			return errors.New("无法执行强盗交换：必须指定一名目标")
		}
		reveal, err = resolveRobberSwap(st, req.ActorID, req.TargetIDs[0])

	case NIGHT_TROUBLEMAKER_SWAP:
		if len(req.TargetIDs) != 2 {
			return errors.New("无法执行捣蛋鬼交换：必须指定两名目标")
		}
		err = resolveTroublemakerSwap(st, req.ActorID, req.TargetIDs[0], req.TargetIDs[1])

	case NIGHT_DRUNK_SWAP:
		if len(req.CenterIndexes) != 1 {
			return errors.New("无法执行酒鬼交换：必须指定一张中央区卡牌")
		}
		err = resolveDrunkSwap(st, req.ActorID, req.CenterIndexes[0])

	case NIGHT_SEER_VIEW_PLAYER:
		if len(req.TargetIDs) != 1 {
			return errors.New("无法查看手牌：必须指定一名目标")
		}
		reveal, err = resolveSeerViewPlayer(st, req.ActorID, req.TargetIDs[0])

	case NIGHT_SEER_VIEW_CENTER:
		reveal, err = resolveSeerViewCenter(st, req.ActorID, req.CenterIndexes)

	case NIGHT_LONE_WOLF_VIEW:
		if len(req.CenterIndexes) != 1 {
			return errors.New("无法查看中央区：必须指定一张卡牌")
		}
		reveal, err = resolveLoneWolfView(st, req.ActorID, req.CenterIndexes[0])
	}

	if err != nil {
		return err
	}

	// 查看结果只单播给行动者本人，绝不广播
	if reveal != nil {
		ctx.UnicastResp(req.ActorID, WrapResponse(RESP_NIGHT_REVEAL, reveal))
	}

	ctx.BroadcastState()
	nah.advanceIfTurnDone(ctx)

	return nil
}

func (nah *nightActiveStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (nah *nightActiveStageHandler) SetOnSwitch(onSwitch func(string)) {
	nah.onSwitch = onSwitch
}

// 白天讨论阶段
type dayDiscussionStageHandler struct {
	onSwitch func(string)
}

func NewDayDiscussionStageHandler() *dayDiscussionStageHandler {
	return &dayDiscussionStageHandler{}
}

func (dsh *dayDiscussionStageHandler) Stage() string {
	return PHASE_DAY_DISCUSSION
}

func (dsh *dayDiscussionStageHandler) OnEnter(ctx *GameContext) {
	if line := ctx.Narr.PhaseLine(PHASE_DAY_DISCUSSION); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.BroadcastState()
}

func (dsh *dayDiscussionStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	if req := TryUnwrapPhaseChangeRequest(req); req != nil {
		if req.Phase != PHASE_DAY_VOTING {
			return errors.New("无法切换阶段：讨论阶段只能进入投票阶段")
		}

		requester := ctx.State.FindParticipant(req.RequesterID)
		if requester == nil || !requester.IsHost {
			return errors.New("无法结束讨论：只有房主可以发起投票")
		}

		dsh.onSwitch(PHASE_DAY_VOTING)

		return nil
	}

	return errors.New("无法处理请求：讨论阶段不支持该请求类型")
}

func (dsh *dayDiscussionStageHandler) OnExit(ctx *GameContext) {
}

func (dsh *dayDiscussionStageHandler) SetOnSwitch(onSwitch func(string)) {
	dsh.onSwitch = onSwitch
}

// 白天投票阶段
type dayVotingStageHandler struct {
	onSwitch func(string)
}

func NewDayVotingStageHandler() *dayVotingStageHandler {
	return &dayVotingStageHandler{}
}

func (vsh *dayVotingStageHandler) Stage() string {
	return PHASE_DAY_VOTING
}

func (vsh *dayVotingStageHandler) OnEnter(ctx *GameContext) {
	// 每次进入投票阶段都清空投票记录
	ctx.State.Votes = make(map[string]string)

	if line := ctx.Narr.PhaseLine(PHASE_DAY_VOTING); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.BroadcastState()
}

// 所有入座参与者都已投票则自动截止，旁观者不计入
func (vsh *dayVotingStageHandler) advanceIfAllVoted(ctx *GameContext) {
	st := ctx.State

	seated := st.SeatedParticipants()
	if len(seated) == 0 {
		return
	}

	for _, p := range seated {
		if _, voted := st.Votes[p.ID]; !voted {
			return
		}
	}

	vsh.onSwitch(PHASE_DAY_RESULTS)
}

func (vsh *dayVotingStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		// 离开的参与者可能正是最后一个未投票的人
		vsh.advanceIfAllVoted(ctx)
		return err
	}

	if req := TryUnwrapVoteRequest(req); req != nil {
		if err := resolveVote(ctx.State, req); err != nil {
			return err
		}

		ctx.BroadcastState()
		vsh.advanceIfAllVoted(ctx)

		return nil
	}

	if req := TryUnwrapPhaseChangeRequest(req); req != nil {
		if req.Phase != PHASE_DAY_RESULTS {
			return errors.New("无法切换阶段：投票阶段只能进入结果阶段")
		}

		requester := ctx.State.FindParticipant(req.RequesterID)
		if requester == nil || !requester.IsHost {
			return errors.New("无法截止投票：只有房主可以强制开票")
		}

		vsh.onSwitch(PHASE_DAY_RESULTS)

		return nil
	}

	return errors.New("无法处理请求：投票阶段不支持该请求类型")
}

func (vsh *dayVotingStageHandler) OnExit(ctx *GameContext) {
}

func (vsh *dayVotingStageHandler) SetOnSwitch(onSwitch func(string)) {
	vsh.onSwitch = onSwitch
}

// 结果阶段
type dayResultsStageHandler struct {
	onSwitch func(string)
}

func NewDayResultsStageHandler() *dayResultsStageHandler {
	return &dayResultsStageHandler{}
}

func (rsh *dayResultsStageHandler) Stage() string {
	return PHASE_DAY_RESULTS
}

func (rsh *dayResultsStageHandler) OnEnter(ctx *GameContext) {
	st := ctx.State

	st.Result = ResolveVotes(st)

	appendLog(st, st.Result.Reason)

	zap.L().Info(
		"对局结果判定完成",
		zap.String("room_id", st.RoomID),
		zap.Any("winners", st.Result.Winners),
		zap.Strings("dead_player_ids", st.Result.DeadPlayerIDs),
	)

	ctx.BroadcastState()
}

func (rsh *dayResultsStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	if req := TryUnwrapResetGameRequest(req); req != nil {
		requester := ctx.State.FindParticipant(req.RequesterID)
		if requester == nil || !requester.IsHost {
			return errors.New("无法重开：只有房主可以重开一局")
		}

		resolveReset(ctx.State)

		rsh.onSwitch(PHASE_LOBBY)

		return nil
	}

	if req := TryUnwrapPhaseChangeRequest(req); req != nil {
		if req.Phase != PHASE_GAME_OVER {
			return errors.New("无法切换阶段：结果阶段只能结束会话或重开")
		}

		requester := ctx.State.FindParticipant(req.RequesterID)
		if requester == nil || !requester.IsHost {
			return errors.New("无法结束会话：只有房主可以结束会话")
		}

		rsh.onSwitch(PHASE_GAME_OVER)

		return nil
	}

	return errors.New("无法处理请求：结果阶段不支持该请求类型")
}

func (rsh *dayResultsStageHandler) OnExit(ctx *GameContext) {
}

func (rsh *dayResultsStageHandler) SetOnSwitch(onSwitch func(string)) {
	rsh.onSwitch = onSwitch
}

// 结束阶段
type gameOverStageHandler struct {
	onSwitch func(string)
}

func NewGameOverStageHandler() *gameOverStageHandler {
	return &gameOverStageHandler{}
}

func (gsh *gameOverStageHandler) Stage() string {
	return PHASE_GAME_OVER
}

func (gsh *gameOverStageHandler) OnEnter(ctx *GameContext) {
	if line := ctx.Narr.PhaseLine(PHASE_GAME_OVER); line != "" {
		appendLog(ctx.State, line)
	}

	ctx.BroadcastState()
}

func (gsh *gameOverStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req); handled {
		return err
	}

	return errors.New("会话已结束")
}

func (gsh *gameOverStageHandler) OnExit(ctx *GameContext) {
	// 强制确定为结束阶段，防止出现异常状态
	ctx.State.Phase = PHASE_GAME_OVER
}

func (gsh *gameOverStageHandler) SetOnSwitch(onSwitch func(string)) {
	gsh.onSwitch = onSwitch
}
