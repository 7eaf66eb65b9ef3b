package game

// Replica 是访客设备持有的只读状态副本
// 同步纪律：每次收到快照整体替换，绝不逐字段合并；
// 唯一允许的本地乐观修改是入座预览，会被下一次权威快照无条件覆盖
type Replica struct {
	selfID string
	state  *SessionState

	// 自己的 ID 曾经出现在某次快照中
	everPresent bool
	// 曾经在场、如今从快照中消失，视为被房主移除
	kicked bool
}

func NewReplica(selfID string) *Replica {
	return &Replica{selfID: selfID}
}

// Apply 接收一份权威快照并整体替换本地副本
// 自己的 ID 从参与者列表中消失时判定为被踢出，本地会话应当终止
func (r *Replica) Apply(snapshot *SessionState) {
	r.state = snapshot

	if snapshot == nil {
		return
	}

	if snapshot.FindParticipant(r.selfID) != nil {
		r.everPresent = true
		return
	}

	if r.everPresent {
		r.kicked = true
	}
}

func (r *Replica) State() *SessionState {
	return r.state
}

// Self 在每次快照中重新定位自己的参与者记录
func (r *Replica) Self() *Participant {
	if r.state == nil {
		return nil
	}

	return r.state.FindParticipant(r.selfID)
}

// Kicked 为真表示本设备已被房主移除，没有恢复路径
func (r *Replica) Kicked() bool {
	return r.kicked
}

// ClaimSeatLocal 在等待房主确认期间本地预览入座效果
// 只修改本地投影：座位无效或已被占用时不做任何事，
// 无论预览成功与否，下一次快照都会覆盖这里的修改
func (r *Replica) ClaimSeatLocal(seat int) {
	if r.state == nil {
		return
	}

	self := r.state.FindParticipant(r.selfID)
	if self == nil {
		return
	}

	if seat < 1 || seat > r.state.Settings.PlayerCount || r.state.SeatTaken(seat) {
		return
	}

	self.Seat = seat
}
