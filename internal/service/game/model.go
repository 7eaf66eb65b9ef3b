package game

// 角色标识，取值为固定枚举（见 catalog.go）
type RoleID string

// 阵营
type Team string

const (
	TEAM_VILLAGER Team = "Villager"
	TEAM_WEREWOLF Team = "Werewolf"
	TEAM_TANNER   Team = "Tanner"
)

// 参与者，对应一台已连接的设备
// Role 在夜晚阶段可能被交换多次，InitialRole 发牌后不再变化，
// 夜晚的行动轮次以 InitialRole 为准
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// 座位号，1 起始，0 表示未入座
	Seat        int    `json:"seat"`
	Role        RoleID `json:"role,omitempty"`
	InitialRole RoleID `json:"initial_role,omitempty"`
	IsHost      bool   `json:"is_host"`

	RespCh chan ResponseWrapper `json:"-"`
}

func (p *Participant) Seated() bool {
	return p.Seat > 0
}

type Settings struct {
	PlayerCount int `json:"player_count"`
}

// 对局结果，仅在投票判定后填充
type GameResult struct {
	Winners       []Team   `json:"winners"`
	DeadPlayerIDs []string `json:"dead_player_ids"`
	Reason        string   `json:"reason"`
}

// SessionState 是唯一的会话根记录，由房主持有可写副本，
// 每次变更后整体广播给所有访客
type SessionState struct {
	RoomID       string         `json:"room_id"`
	Participants []*Participant `json:"participants"`
	CenterCards  []RoleID       `json:"center_cards"`
	Phase        string         `json:"phase"`
	// 本局实际生效的夜晚行动序列（按在场初始角色过滤后的结果）
	NightOrder []RoleID `json:"night_order,omitempty"`
	NightIndex int      `json:"night_index"`
	// 当前倒计时时长，单位秒，仅作展示提示
	Countdown int `json:"countdown"`
	// 投票者 ID -> 目标 ID，重复投票覆盖
	Votes map[string]string `json:"votes"`
	// 已完成当前夜晚行动的参与者集合
	FinishedTurn   map[string]bool `json:"finished_turn"`
	FirstSpeakerID string          `json:"first_speaker_id,omitempty"`
	Settings       Settings        `json:"settings"`
	EventLog       []string        `json:"event_log"`
	Result         *GameResult     `json:"result,omitempty"`
}

func NewSessionState(roomID string, playerCount int) *SessionState {
	return &SessionState{
		RoomID:       roomID,
		Participants: make([]*Participant, 0, playerCount),
		CenterCards:  make([]RoleID, 0, CENTER_CARD_COUNT),
		Phase:        PHASE_LOBBY,
		Votes:        make(map[string]string),
		FinishedTurn: make(map[string]bool),
		Settings:     Settings{PlayerCount: playerCount},
		EventLog:     make([]string, 0),
	}
}

func (st *SessionState) FindParticipant(id string) *Participant {
	for _, p := range st.Participants {
		if p.ID == id {
			return p
		}
	}

	return nil
}

func (st *SessionState) HostParticipant() *Participant {
	for _, p := range st.Participants {
		if p.IsHost {
			return p
		}
	}

	return nil
}

// 按座位号升序返回已入座的参与者
func (st *SessionState) SeatedParticipants() []*Participant {
	seated := make([]*Participant, 0, len(st.Participants))
	for _, p := range st.Participants {
		if p.Seated() {
			seated = append(seated, p)
		}
	}

	for i := 1; i < len(seated); i++ {
		for j := i; j > 0 && seated[j-1].Seat > seated[j].Seat; j-- {
			seated[j-1], seated[j] = seated[j], seated[j-1]
		}
	}

	return seated
}

func (st *SessionState) SeatTaken(seat int) bool {
	for _, p := range st.Participants {
		if p.Seat == seat {
			return true
		}
	}

	return false
}

// 某个夜晚角色的行动者集合，以初始角色为准
func (st *SessionState) ActorsFor(role RoleID) []*Participant {
	actors := make([]*Participant, 0)
	for _, p := range st.Participants {
		if p.InitialRole == role {
			actors = append(actors, p)
		}
	}

	return actors
}

// 当前正在行动的夜晚角色，序列耗尽时返回空串
func (st *SessionState) CurrentNightRole() RoleID {
	if st.NightIndex < 0 || st.NightIndex >= len(st.NightOrder) {
		return ""
	}

	return st.NightOrder[st.NightIndex]
}

// 移除参与者，并同步清理其投票与行动完成记录
// 指向被移除者的选票一并作废，计票时不能有吸走票数的幽灵目标；
// 作废选票的投票者回到未投票状态，可以重新投票
// 空出的座位保持空置，不做任何重排
func (st *SessionState) RemoveParticipant(id string) *Participant {
	for i, p := range st.Participants {
		if p.ID != id {
			continue
		}

		st.Participants = append(st.Participants[:i], st.Participants[i+1:]...)

		delete(st.Votes, id)
		delete(st.FinishedTurn, id)

		for voterID, targetID := range st.Votes {
			if targetID == id {
				delete(st.Votes, voterID)
			}
		}

		return p
	}

	return nil
}

// 当前持有狼人牌的参与者数量（按现角色而非初始角色）
func (st *SessionState) WerewolfCount() int {
	count := 0
	for _, p := range st.Participants {
		if p.Role == ROLE_WEREWOLF {
			count++
		}
	}

	return count
}
