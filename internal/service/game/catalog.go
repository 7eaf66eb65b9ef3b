package game

import (
	"errors"
	"math/rand"
)

// 游戏角色枚举，属于一个封闭集合
// 新增角色需要同时扩展 roleCatalog 与 resolver 的分发逻辑
const (
	ROLE_VILLAGER     RoleID = "Villager"
	ROLE_WEREWOLF     RoleID = "Werewolf"
	ROLE_SEER         RoleID = "Seer"
	ROLE_ROBBER       RoleID = "Robber"
	ROLE_TROUBLEMAKER RoleID = "Troublemaker"
	ROLE_TANNER       RoleID = "Tanner"
	ROLE_DRUNK        RoleID = "Drunk"
	ROLE_HUNTER       RoleID = "Hunter"
	ROLE_MASON        RoleID = "Mason"
	ROLE_MINION       RoleID = "Minion"
	ROLE_INSOMNIAC    RoleID = "Insomniac"
)

// 牌堆固定比座位数多 3 张，多出的牌进入中央区
const CENTER_CARD_COUNT = 3

// 座位数上下限
const (
	MIN_PLAYER_COUNT = 3
	MAX_PLAYER_COUNT = 10
)

type RoleSpec struct {
	ID   RoleID `json:"id"`
	Team Team   `json:"team"`
	// 夜晚唤醒顺序，0 表示夜晚不行动，正数从小到大依次行动
	NightOrder int `json:"night_order"`
	// 单回合时长提示，选择空间大的角色给更长的时间
	TurnSeconds int `json:"turn_seconds"`
}

// 角色目录，静态数据
var roleCatalog = map[RoleID]RoleSpec{
	ROLE_VILLAGER:     {ID: ROLE_VILLAGER, Team: TEAM_VILLAGER, NightOrder: 0, TurnSeconds: 0},
	ROLE_WEREWOLF:     {ID: ROLE_WEREWOLF, Team: TEAM_WEREWOLF, NightOrder: 2, TurnSeconds: 15},
	ROLE_MINION:       {ID: ROLE_MINION, Team: TEAM_WEREWOLF, NightOrder: 3, TurnSeconds: 7},
	ROLE_MASON:        {ID: ROLE_MASON, Team: TEAM_VILLAGER, NightOrder: 4, TurnSeconds: 7},
	ROLE_SEER:         {ID: ROLE_SEER, Team: TEAM_VILLAGER, NightOrder: 5, TurnSeconds: 15},
	ROLE_ROBBER:       {ID: ROLE_ROBBER, Team: TEAM_VILLAGER, NightOrder: 6, TurnSeconds: 15},
	ROLE_TROUBLEMAKER: {ID: ROLE_TROUBLEMAKER, Team: TEAM_VILLAGER, NightOrder: 7, TurnSeconds: 15},
	ROLE_DRUNK:        {ID: ROLE_DRUNK, Team: TEAM_VILLAGER, NightOrder: 8, TurnSeconds: 10},
	ROLE_INSOMNIAC:    {ID: ROLE_INSOMNIAC, Team: TEAM_VILLAGER, NightOrder: 9, TurnSeconds: 7},
	ROLE_TANNER:       {ID: ROLE_TANNER, Team: TEAM_TANNER, NightOrder: 0, TurnSeconds: 0},
	ROLE_HUNTER:       {ID: ROLE_HUNTER, Team: TEAM_VILLAGER, NightOrder: 0, TurnSeconds: 0},
}

func LookupRole(id RoleID) (RoleSpec, bool) {
	spec, ok := roleCatalog[id]
	return spec, ok
}

func RoleTeam(id RoleID) Team {
	return roleCatalog[id].Team
}

// 完整的夜晚唤醒序列，目录级固定顺序
// 每局开始时再按实际发出的初始角色过滤（见 fsm 的夜晚阶段）
func FullNightOrder() []RoleID {
	order := make([]RoleID, 0, len(roleCatalog))
	for id, spec := range roleCatalog {
		if spec.NightOrder > 0 {
			order = append(order, id)
		}
	}

	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && roleCatalog[order[j-1]].NightOrder > roleCatalog[order[j]].NightOrder; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}

	return order
}

// 牌堆模板，顺序即设计意图：
// 狼人和关键信息角色排在前面，保证小规模对局也有博弈空间，
// 填充型角色靠后，只有人数多的时候才会进场
var deckTemplate = []RoleID{
	ROLE_WEREWOLF,
	ROLE_WEREWOLF,
	ROLE_SEER,
	ROLE_ROBBER,
	ROLE_TROUBLEMAKER,
	ROLE_VILLAGER,
	ROLE_TANNER,
	ROLE_DRUNK,
	ROLE_HUNTER,
	ROLE_MASON,
	ROLE_MASON,
	ROLE_INSOMNIAC,
	ROLE_MINION,
}

// BuildDeck 根据目标人数构建牌堆，长度固定为人数 + 3
// 相同人数下输出完全确定，随机性只发生在发牌时的洗牌
func BuildDeck(playerCount int) ([]RoleID, error) {
	if playerCount < MIN_PLAYER_COUNT || playerCount > MAX_PLAYER_COUNT {
		return nil, errors.New("无法构建牌堆：人数必须在 3 到 10 之间")
	}

	deck := make([]RoleID, playerCount+CENTER_CARD_COUNT)
	copy(deck, deckTemplate[:playerCount+CENTER_CARD_COUNT])

	return deck, nil
}

// ShuffleDeck 均匀洗牌，返回副本，不修改入参
func ShuffleDeck(deck []RoleID) []RoleID {
	shuffled := make([]RoleID, len(deck))
	copy(shuffled, deck)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
