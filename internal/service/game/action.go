package game

// 访客 -> 房主：连接握手，注册新参与者
// 若携带的 ID 已存在则视为断线重连，只替换响应通道
type HelloRequest struct {
	Participant Participant          `json:"participant"`
	RespCh      chan ResponseWrapper `json:"-"`
}

// 访客 -> 房主：申请座位
type ClaimSeatRequest struct {
	ParticipantID string `json:"participant_id"`
	SeatNumber    int    `json:"seat_number"`
}

// 访客 -> 房主：踢出参与者，仅房主有权发起
type KickRequest struct {
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
}

// 访客 -> 房主：投票，重复投票覆盖旧票
type VoteRequest struct {
	VoterID  string `json:"voter_id"`
	TargetID string `json:"target_id"`
}

// 访客 -> 房主：房主手动推进阶段
// SpeakerID 为预留字段，当前由房主侧随机选定首位发言者
type PhaseChangeRequest struct {
	RequesterID string `json:"requester_id"`
	Phase       string `json:"phase"`
	SpeakerID   string `json:"speaker_id,omitempty"`
}

// 夜晚行动类型
const (
	NIGHT_ROBBER_SWAP       = "RobberSwap"
	NIGHT_TROUBLEMAKER_SWAP = "TroublemakerSwap"
	NIGHT_DRUNK_SWAP        = "DrunkSwap"
	NIGHT_SEER_VIEW_PLAYER  = "SeerViewPlayer"
	NIGHT_SEER_VIEW_CENTER  = "SeerViewCenter"
	NIGHT_LONE_WOLF_VIEW    = "LoneWolfViewCenter"
	NIGHT_CONFIRM           = "Confirm"
)

// 访客 -> 房主：夜晚行动
// TargetIDs 指向其他参与者，CenterIndexes 指向中央区卡牌
type NightActionRequest struct {
	ActionType    string   `json:"action_type"`
	ActorID       string   `json:"actor_id"`
	TargetIDs     []string `json:"target_ids,omitempty"`
	CenterIndexes []int    `json:"center_indexes,omitempty"`
}

// 访客 -> 房主：重开一局，仅房主有权发起
type ResetGameRequest struct {
	RequesterID string `json:"requester_id"`
}

// 内部事件：阶段定时器到期
// 携带定时器启动时的阶段与夜晚序号，防止过期定时器作用在新状态上
type TimeoutRequest struct {
	Phase      string `json:"phase"`
	NightIndex int    `json:"night_index"`
}

// 内部事件：传输层检测到连接关闭
type LeaveRequest struct {
	ParticipantID string               `json:"participant_id"`
	RespCh        chan ResponseWrapper `json:"-"`
}

// 房主 -> 访客：完整状态快照，每次变更后全量广播
// 访客收到后整体替换本地副本，绝不逐字段合并
type SyncStateResponse struct {
	State *SessionState `json:"state"`
}

// 房主 -> 访客（单播）：夜晚行动的私密查看结果
// 只发给行动者本人，绝不广播
type NightRevealResponse struct {
	ActorID     string            `json:"actor_id"`
	ActionType  string            `json:"action_type"`
	PlayerRoles map[string]RoleID `json:"player_roles,omitempty"`
	CenterRoles map[int]RoleID    `json:"center_roles,omitempty"`
	// 强盗交换后获得的新角色
	NewRole RoleID `json:"new_role,omitempty"`
}
