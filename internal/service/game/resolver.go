package game

import (
	"errors"
	"fmt"
)

// 本文件是动作解析器：纯状态变换，不做任何网络 IO
// 约定：校验失败返回 error 且不触碰状态，调用方只记录日志、
// 不广播、不向发送者回错（无效请求静默忽略）
// 每个产生变更的动作都会用变更前的名字和角色写一条事件日志，
// 保证后续再发生交换时日志仍是准确的审计记录

func appendLog(st *SessionState, line string) {
	st.EventLog = append(st.EventLog, line)
}

func resolveClaimSeat(st *SessionState, req *ClaimSeatRequest) error {
	p := st.FindParticipant(req.ParticipantID)
	if p == nil {
		return errors.New("无法入座：参与者不存在")
	}

	if req.SeatNumber < 1 || req.SeatNumber > st.Settings.PlayerCount {
		return errors.New("无法入座：座位号超出范围")
	}

	if st.SeatTaken(req.SeatNumber) {
		return errors.New("无法入座：座位已被占用")
	}

	p.Seat = req.SeatNumber

	appendLog(st, fmt.Sprintf("%s 坐上了 %d 号位", p.Name, req.SeatNumber))

	return nil
}

// 返回被移除的参与者，调用方负责关闭其响应通道
func resolveKick(st *SessionState, req *KickRequest) (*Participant, error) {
	requester := st.FindParticipant(req.RequesterID)
	if requester == nil || !requester.IsHost {
		return nil, errors.New("无法踢人：只有房主可以踢人")
	}

	target := st.FindParticipant(req.TargetID)
	if target == nil {
		return nil, errors.New("无法踢人：目标参与者不存在")
	}

	if target.IsHost {
		return nil, errors.New("无法踢人：房主不能移除自己")
	}

	removed := st.RemoveParticipant(req.TargetID)

	appendLog(st, fmt.Sprintf("%s 被房主移出了房间", removed.Name))

	return removed, nil
}

// 强盗交换：行动者与目标互换手牌，行动者获知自己的新角色
func resolveRobberSwap(st *SessionState, actorID, targetID string) (*NightRevealResponse, error) {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_ROBBER {
		return nil, errors.New("无法执行强盗交换：行动者的初始角色不是强盗")
	}

	if actorID == targetID {
		return nil, errors.New("无法执行强盗交换：不能与自己交换")
	}

	target := st.FindParticipant(targetID)
	if target == nil {
		return nil, errors.New("无法执行强盗交换：目标参与者不存在")
	}

	appendLog(st, fmt.Sprintf("强盗 %s 与 %s 交换了手牌", actor.Name, target.Name))

	actor.Role, target.Role = target.Role, actor.Role

	st.FinishedTurn[actorID] = true

	return &NightRevealResponse{
		ActorID:    actorID,
		ActionType: NIGHT_ROBBER_SWAP,
		NewRole:    actor.Role,
	}, nil
}

// 捣蛋鬼交换：互换两名其他参与者的手牌，行动者不获知任何信息
func resolveTroublemakerSwap(st *SessionState, actorID, firstID, secondID string) error {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_TROUBLEMAKER {
		return errors.New("无法执行捣蛋鬼交换：行动者的初始角色不是捣蛋鬼")
	}

	if firstID == secondID || firstID == actorID || secondID == actorID {
		return errors.New("无法执行捣蛋鬼交换：必须选择两名不同的其他参与者")
	}

	first := st.FindParticipant(firstID)
	second := st.FindParticipant(secondID)
	if first == nil || second == nil {
		return errors.New("无法执行捣蛋鬼交换：目标参与者不存在")
	}

	appendLog(st, fmt.Sprintf("捣蛋鬼 %s 交换了 %s 和 %s 的手牌", actor.Name, first.Name, second.Name))

	first.Role, second.Role = second.Role, first.Role

	st.FinishedTurn[actorID] = true

	return nil
}

// 酒鬼交换：行动者与指定中央区卡牌互换，行动者不获知新角色
func resolveDrunkSwap(st *SessionState, actorID string, centerIndex int) error {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_DRUNK {
		return errors.New("无法执行酒鬼交换：行动者的初始角色不是酒鬼")
	}

	if centerIndex < 0 || centerIndex >= len(st.CenterCards) {
		return errors.New("无法执行酒鬼交换：中央区卡牌序号超出范围")
	}

	appendLog(st, fmt.Sprintf("酒鬼 %s 与中央区 %d 号牌交换了手牌", actor.Name, centerIndex+1))

	actor.Role, st.CenterCards[centerIndex] = st.CenterCards[centerIndex], actor.Role

	st.FinishedTurn[actorID] = true

	return nil
}

// 预言家查看一名参与者的当前手牌，结果只回传给行动者本人
func resolveSeerViewPlayer(st *SessionState, actorID, targetID string) (*NightRevealResponse, error) {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_SEER {
		return nil, errors.New("无法查看手牌：行动者的初始角色不是预言家")
	}

	if actorID == targetID {
		return nil, errors.New("无法查看手牌：不能查看自己的手牌")
	}

	target := st.FindParticipant(targetID)
	if target == nil {
		return nil, errors.New("无法查看手牌：目标参与者不存在")
	}

	st.FinishedTurn[actorID] = true

	return &NightRevealResponse{
		ActorID:     actorID,
		ActionType:  NIGHT_SEER_VIEW_PLAYER,
		PlayerRoles: map[string]RoleID{targetID: target.Role},
	}, nil
}

// 预言家查看两张中央区卡牌
func resolveSeerViewCenter(st *SessionState, actorID string, centerIndexes []int) (*NightRevealResponse, error) {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_SEER {
		return nil, errors.New("无法查看中央区：行动者的初始角色不是预言家")
	}

	if len(centerIndexes) != 2 || centerIndexes[0] == centerIndexes[1] {
		return nil, errors.New("无法查看中央区：必须选择两张不同的卡牌")
	}

	revealed := make(map[int]RoleID, 2)
	for _, idx := range centerIndexes {
		if idx < 0 || idx >= len(st.CenterCards) {
			return nil, errors.New("无法查看中央区：卡牌序号超出范围")
		}
		revealed[idx] = st.CenterCards[idx]
	}

	st.FinishedTurn[actorID] = true

	return &NightRevealResponse{
		ActorID:     actorID,
		ActionType:  NIGHT_SEER_VIEW_CENTER,
		CenterRoles: revealed,
	}, nil
}

// 孤狼查看一张中央区卡牌，仅当行动者是唯一初始狼人时允许
func resolveLoneWolfView(st *SessionState, actorID string, centerIndex int) (*NightRevealResponse, error) {
	actor := st.FindParticipant(actorID)
	if actor == nil || actor.InitialRole != ROLE_WEREWOLF {
		return nil, errors.New("无法查看中央区：行动者的初始角色不是狼人")
	}

	if len(st.ActorsFor(ROLE_WEREWOLF)) != 1 {
		return nil, errors.New("无法查看中央区：场上不止一名狼人")
	}

	if centerIndex < 0 || centerIndex >= len(st.CenterCards) {
		return nil, errors.New("无法查看中央区：卡牌序号超出范围")
	}

	st.FinishedTurn[actorID] = true

	return &NightRevealResponse{
		ActorID:     actorID,
		ActionType:  NIGHT_LONE_WOLF_VIEW,
		CenterRoles: map[int]RoleID{centerIndex: st.CenterCards[centerIndex]},
	}, nil
}

// 确认完成本回合行动，重复确认是幂等的空操作
func resolveConfirmTurn(st *SessionState, actorID string) error {
	if st.FindParticipant(actorID) == nil {
		return errors.New("无法确认行动：参与者不存在")
	}

	st.FinishedTurn[actorID] = true

	return nil
}

// 投票：同一投票者重复投票时覆盖旧票
// 只有入座的参与者可以投票和被投，旁观者不参与
func resolveVote(st *SessionState, req *VoteRequest) error {
	voter := st.FindParticipant(req.VoterID)
	if voter == nil || !voter.Seated() {
		return errors.New("无法投票：投票者不存在或未入座")
	}

	target := st.FindParticipant(req.TargetID)
	if target == nil || !target.Seated() {
		return errors.New("无法投票：目标参与者不存在或未入座")
	}

	st.Votes[req.VoterID] = req.TargetID

	appendLog(st, fmt.Sprintf("%s 投给了 %s", voter.Name, target.Name))

	return nil
}

// 重开一局：清空单局数据，保留已入座的参与者
func resolveReset(st *SessionState) {
	for _, p := range st.Participants {
		p.Role = ""
		p.InitialRole = ""
	}

	st.CenterCards = st.CenterCards[:0]
	st.NightOrder = nil
	st.NightIndex = 0
	st.Votes = make(map[string]string)
	st.FinishedTurn = make(map[string]bool)
	st.FirstSpeakerID = ""
	st.EventLog = make([]string, 0)
	st.Result = nil
}

// ResolveVotes 执行计票与胜负判定
// 规则要点：
//   - 得票最高者全部被处决，平票不加赛、不随机
//   - 被处决者现角色为猎人时，其本人的投票目标一并被处决，
//     且连锁只传递一层（被连坐者不再触发反击）
//   - 胜负按严格优先级判定：皮匠 > 狼人被处决 > 无狼场 > 狼人存活
func ResolveVotes(st *SessionState) *GameResult {
	tally := make(map[string]int)
	for _, targetID := range st.Votes {
		tally[targetID]++
	}

	maxVotes := 0
	for _, count := range tally {
		if count > maxVotes {
			maxVotes = count
		}
	}

	executed := make(map[string]bool)
	if maxVotes > 0 {
		for targetID, count := range tally {
			if count == maxVotes {
				executed[targetID] = true
			}
		}
	}

	// 猎人反击，只遍历初始处决集合，单层连锁
	chained := make([]string, 0, 1)
	for id := range executed {
		p := st.FindParticipant(id)
		if p == nil || p.Role != ROLE_HUNTER {
			continue
		}

		if hunterTarget, ok := st.Votes[id]; ok {
			chained = append(chained, hunterTarget)
		}
	}

	for _, id := range chained {
		executed[id] = true
	}

	// 死亡名单按座位号排序，保证任何设备上判定输出完全一致
	deadIDs := make([]string, 0, len(executed))
	for _, p := range st.SeatedParticipants() {
		if executed[p.ID] {
			deadIDs = append(deadIDs, p.ID)
		}
	}

	wolfExecuted := false
	tannerExecuted := false
	for id := range executed {
		p := st.FindParticipant(id)
		if p == nil {
			continue
		}

		switch p.Role {
		case ROLE_TANNER:
			tannerExecuted = true
		default:
			if RoleTeam(p.Role) == TEAM_WEREWOLF {
				wolfExecuted = true
			}
		}
	}

	result := &GameResult{DeadPlayerIDs: deadIDs}

	switch {
	case tannerExecuted:
		// 皮匠被处决则皮匠独赢，覆盖其他一切结果
		result.Winners = []Team{TEAM_TANNER}
		result.Reason = "皮匠被处决，皮匠单独获胜"

	case wolfExecuted:
		result.Winners = []Team{TEAM_VILLAGER}
		result.Reason = "狼人阵营成员被处决，村民阵营获胜"

	case st.WerewolfCount() == 0 && len(executed) == 0:
		result.Winners = []Team{TEAM_VILLAGER}
		result.Reason = "本局没有狼人，也无人被处决，村民阵营获胜"

	case st.WerewolfCount() == 0:
		result.Winners = []Team{TEAM_WEREWOLF}
		result.Reason = "本局没有狼人，却有无辜者被处决，狼人阵营获胜"

	default:
		result.Winners = []Team{TEAM_WEREWOLF}
		result.Reason = "狼人全部存活，狼人阵营获胜"
	}

	return result
}
