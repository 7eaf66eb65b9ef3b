package game

import (
	"testing"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"
)

func newTestGameContext(st *SessionState) *GameContext {
	return &GameContext{
		State: st,
		Narr:  narrator.NewStaticNarrator(),
		TmoCh: make(chan RequestWrapper, 16),
	}
}

// 与状态机内的 onSwitch 等价：把目标阶段写回状态
func bindSwitch(handler StageHandler, ctx *GameContext) {
	handler.SetOnSwitch(func(nextStage string) {
		ctx.State.Phase = nextStage
	})
}

func TestOnParticipantJoin_FirstJoinerBecomesHost(t *testing.T) {
	ctx := newTestGameContext(NewSessionState("room-test", 3))

	first := &HelloRequest{
		Participant: Participant{ID: "p1", Name: "Alice"},
		RespCh:      make(chan ResponseWrapper, 8),
	}
	second := &HelloRequest{
		Participant: Participant{ID: "p2", Name: "Bob"},
		RespCh:      make(chan ResponseWrapper, 8),
	}

	onParticipantJoin(ctx, first)
	onParticipantJoin(ctx, second)

	if !ctx.State.FindParticipant("p1").IsHost {
		t.Fatalf("the first joiner must hold the host flag")
	}
	if ctx.State.FindParticipant("p2").IsHost {
		t.Fatalf("later joiners must not hold the host flag")
	}
}

func TestOnParticipantJoin_SameIDReconnectsInPlace(t *testing.T) {
	ctx := newTestGameContext(NewSessionState("room-test", 3))

	oldCh := make(chan ResponseWrapper, 8)
	onParticipantJoin(ctx, &HelloRequest{
		Participant: Participant{ID: "p1", Name: "Alice"},
		RespCh:      oldCh,
	})

	ctx.State.FindParticipant("p1").Seat = 2

	newCh := make(chan ResponseWrapper, 8)
	onParticipantJoin(ctx, &HelloRequest{
		Participant: Participant{ID: "p1", Name: "Alice"},
		RespCh:      newCh,
	})

	if len(ctx.State.Participants) != 1 {
		t.Fatalf("reconnect must not duplicate the participant, got %d entries", len(ctx.State.Participants))
	}

	p := ctx.State.FindParticipant("p1")
	if p.RespCh != newCh {
		t.Fatalf("reconnect must adopt the new response channel")
	}
	if p.Seat != 2 {
		t.Fatalf("reconnect must keep the existing seat, got %d", p.Seat)
	}
}

func TestOnParticipantLeave_HostLossIsFatal(t *testing.T) {
	ctx := newTestGameContext(NewSessionState("room-test", 3))

	hostCh := make(chan ResponseWrapper, 8)
	onParticipantJoin(ctx, &HelloRequest{
		Participant: Participant{ID: "p1", Name: "Alice"},
		RespCh:      hostCh,
	})

	// 被顶替的旧连接关闭不算离开
	onParticipantLeave(ctx, &LeaveRequest{
		ParticipantID: "p1",
		RespCh:        make(chan ResponseWrapper, 8),
	})
	if ctx.HostGone || ctx.State.FindParticipant("p1") == nil {
		t.Fatalf("a stale connection closing must not remove the participant")
	}

	onParticipantLeave(ctx, &LeaveRequest{ParticipantID: "p1", RespCh: hostCh})

	if ctx.State.FindParticipant("p1") != nil {
		t.Fatalf("leaving must remove the participant")
	}
	if !ctx.HostGone {
		t.Fatalf("the host leaving must mark the session unrecoverable")
	}
}

func TestHandleCommonRequest_KickIsHostOnly(t *testing.T) {
	st := newDealtState(ROLE_VILLAGER, ROLE_WEREWOLF, ROLE_SEER)
	st.FindParticipant("p1").IsHost = true
	targetCh := make(chan ResponseWrapper, 8)
	st.FindParticipant("p2").RespCh = targetCh

	ctx := newTestGameContext(st)

	badKick := RequestWrapper{
		ReqType: REQ_KICK,
		Data:    mustMarshal(KickRequest{RequesterID: "p3", TargetID: "p2"}),
	}
	handled, err := handleCommonRequest(ctx, badKick)
	if !handled || err == nil {
		t.Fatalf("a non-host kick must be consumed and rejected")
	}
	if st.FindParticipant("p2") == nil {
		t.Fatalf("a rejected kick must not remove the target")
	}

	kick := RequestWrapper{
		ReqType: REQ_KICK,
		Data:    mustMarshal(KickRequest{RequesterID: "p1", TargetID: "p2"}),
	}
	if handled, err := handleCommonRequest(ctx, kick); !handled || err != nil {
		t.Fatalf("host kick should succeed, handled=%v err=%v", handled, err)
	}

	if st.FindParticipant("p2") != nil {
		t.Fatalf("kick must remove the target from the session")
	}

	// 通道被关闭后写协程才能退出
	for {
		if _, ok := <-targetCh; !ok {
			break
		}
	}
}

func TestLobbyStageHandler_StartRequiresHostAndFullSeats(t *testing.T) {
	st := NewSessionState("room-test", 3)
	st.Participants = append(st.Participants,
		&Participant{ID: "p1", Name: "Alice", Seat: 1, IsHost: true},
		&Participant{ID: "p2", Name: "Bob", Seat: 2},
	)

	ctx := newTestGameContext(st)
	lsh := NewLobbyStageHandler()
	bindSwitch(lsh, ctx)

	start := func(requesterID string) error {
		return lsh.OnHandle(ctx, RequestWrapper{
			ReqType: REQ_PHASE_CHANGE,
			Data:    mustMarshal(PhaseChangeRequest{RequesterID: requesterID, Phase: PHASE_ROLE_REVEAL}),
		})
	}

	if err := start("p2"); err == nil {
		t.Fatalf("only the host may start the game")
	}
	if err := start("p1"); err == nil {
		t.Fatalf("starting with empty seats must be rejected")
	}

	st.Participants = append(st.Participants, &Participant{ID: "p3", Name: "Carol", Seat: 3})

	if err := start("p1"); err != nil {
		t.Fatalf("host start with full seats should succeed, got: %v", err)
	}
	if st.Phase != PHASE_ROLE_REVEAL {
		t.Fatalf("start must switch the session to role reveal, got %s", st.Phase)
	}
}

func TestLobbyStageHandler_OccupiedSeatClaimRejected(t *testing.T) {
	st := NewSessionState("room-test", 3)
	st.Participants = append(st.Participants,
		&Participant{ID: "p1", Name: "Alice", Seat: 1, IsHost: true},
		&Participant{ID: "p2", Name: "Bob"},
	)

	ctx := newTestGameContext(st)
	lsh := NewLobbyStageHandler()
	bindSwitch(lsh, ctx)

	claim := RequestWrapper{
		ReqType: REQ_CLAIM_SEAT,
		Data:    mustMarshal(ClaimSeatRequest{ParticipantID: "p2", SeatNumber: 1}),
	}
	if err := lsh.OnHandle(ctx, claim); err == nil {
		t.Fatalf("claiming an occupied seat must be rejected")
	}
	if st.FindParticipant("p2").Seat != 0 {
		t.Fatalf("a rejected claim must not seat the claimant")
	}

	claim = RequestWrapper{
		ReqType: REQ_CLAIM_SEAT,
		Data:    mustMarshal(ClaimSeatRequest{ParticipantID: "p2", SeatNumber: 2}),
	}
	if err := lsh.OnHandle(ctx, claim); err != nil {
		t.Fatalf("claiming a free seat should succeed, got: %v", err)
	}
	if st.FindParticipant("p2").Seat != 2 {
		t.Fatalf("claim must record the seat, got %d", st.FindParticipant("p2").Seat)
	}
}

func TestRoleRevealStageHandler_DealsFullDeck(t *testing.T) {
	st := NewSessionState("room-test", 3)
	st.Participants = append(st.Participants,
		&Participant{ID: "p1", Name: "Alice", Seat: 1, IsHost: true},
		&Participant{ID: "p2", Name: "Bob", Seat: 2},
		&Participant{ID: "p3", Name: "Carol", Seat: 3},
	)

	ctx := newTestGameContext(st)
	rsh := NewRoleRevealStageHandler()
	bindSwitch(rsh, ctx)

	rsh.OnEnter(ctx)
	defer ctx.ClearTimeout()

	for _, p := range st.Participants {
		if p.Role == "" || p.Role != p.InitialRole {
			t.Fatalf("every seated participant must hold a dealt role, %s has %q/%q", p.ID, p.Role, p.InitialRole)
		}
	}

	if len(st.CenterCards) != CENTER_CARD_COUNT {
		t.Fatalf("leftover cards must form the center, want %d got %d", CENTER_CARD_COUNT, len(st.CenterCards))
	}
}

func TestNightActiveStageHandler_FiltersUndealtRoles(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.CenterCards = []RoleID{ROLE_MASON, ROLE_TANNER, ROLE_DRUNK}

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)
	defer ctx.ClearTimeout()

	if len(st.NightOrder) != 2 || st.NightOrder[0] != ROLE_WEREWOLF || st.NightOrder[1] != ROLE_SEER {
		t.Fatalf("the night order must only contain dealt roles in wake order, got %v", st.NightOrder)
	}
	if st.NightIndex != 0 {
		t.Fatalf("the night must begin at the first turn, got %d", st.NightIndex)
	}
}

func TestNightActiveStageHandler_NoNightRolesGoesStraightToDay(t *testing.T) {
	st := newDealtState(ROLE_VILLAGER, ROLE_TANNER, ROLE_HUNTER)

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)

	if st.Phase != PHASE_DAY_DISCUSSION {
		t.Fatalf("a night without actors must fall through to the day, got %s", st.Phase)
	}
	if st.FindParticipant(st.FirstSpeakerID) == nil {
		t.Fatalf("entering the day must pick a first speaker, got %q", st.FirstSpeakerID)
	}
}

func TestNightActiveStageHandler_StaleTimeoutIgnored(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.CenterCards = []RoleID{ROLE_MASON, ROLE_TANNER, ROLE_DRUNK}

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)
	defer ctx.ClearTimeout()

	stale := RequestWrapper{
		ReqType:    REQ_TIMEOUT,
		NativeData: &TimeoutRequest{Phase: PHASE_NIGHT_ACTIVE, NightIndex: 5},
	}
	if err := nah.OnHandle(ctx, stale); err != nil {
		t.Fatalf("stale timeouts must be silently dropped, got: %v", err)
	}
	if st.NightIndex != 0 {
		t.Fatalf("a stale timeout must not advance the night, got index %d", st.NightIndex)
	}

	current := RequestWrapper{
		ReqType:    REQ_TIMEOUT,
		NativeData: &TimeoutRequest{Phase: PHASE_NIGHT_ACTIVE, NightIndex: 0},
	}
	if err := nah.OnHandle(ctx, current); err != nil {
		t.Fatalf("the current turn's timeout should advance, got: %v", err)
	}
	if st.NightIndex != 1 {
		t.Fatalf("timeout must advance to the next turn, got index %d", st.NightIndex)
	}
}

func TestNightActiveStageHandler_ConfirmAdvancesWhenAllActorsDone(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_WEREWOLF, ROLE_SEER)
	st.CenterCards = []RoleID{ROLE_MASON, ROLE_TANNER, ROLE_DRUNK}

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)
	defer ctx.ClearTimeout()

	confirm := func(actorID string) error {
		return nah.OnHandle(ctx, RequestWrapper{
			ReqType: REQ_NIGHT_ACTION,
			Data:    mustMarshal(NightActionRequest{ActionType: NIGHT_CONFIRM, ActorID: actorID}),
		})
	}

	if err := confirm("p1"); err != nil {
		t.Fatalf("first werewolf confirm should succeed, got: %v", err)
	}
	if st.NightIndex != 0 {
		t.Fatalf("the turn must wait for every actor, advanced early to %d", st.NightIndex)
	}

	if err := confirm("p2"); err != nil {
		t.Fatalf("second werewolf confirm should succeed, got: %v", err)
	}
	if st.NightIndex != 1 {
		t.Fatalf("the turn must advance once every actor confirmed, got %d", st.NightIndex)
	}
}

func TestNightActiveStageHandler_RejectsOutOfTurnAction(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.CenterCards = []RoleID{ROLE_MASON, ROLE_TANNER, ROLE_DRUNK}

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)
	defer ctx.ClearTimeout()

	// 狼人回合里预言家抢跑
	early := RequestWrapper{
		ReqType: REQ_NIGHT_ACTION,
		Data:    mustMarshal(NightActionRequest{ActionType: NIGHT_SEER_VIEW_PLAYER, ActorID: "p2", TargetIDs: []string{"p1"}}),
	}
	if err := nah.OnHandle(ctx, early); err == nil {
		t.Fatalf("acting out of turn must be rejected")
	}
	if st.FinishedTurn["p2"] {
		t.Fatalf("a rejected action must not mark the actor finished")
	}
}

func TestNightActiveStageHandler_ActorLeavingUnblocksTurn(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.CenterCards = []RoleID{ROLE_MASON, ROLE_TANNER, ROLE_DRUNK}

	wolfCh := make(chan ResponseWrapper, 8)
	st.FindParticipant("p1").RespCh = wolfCh

	ctx := newTestGameContext(st)
	nah := NewNightActiveStageHandler()
	bindSwitch(nah, ctx)

	nah.OnEnter(ctx)
	defer ctx.ClearTimeout()

	leave := RequestWrapper{
		ReqType:    REQ_LEAVE,
		NativeData: &LeaveRequest{ParticipantID: "p1", RespCh: wolfCh},
	}
	if err := nah.OnHandle(ctx, leave); err != nil {
		t.Fatalf("leave during the night should be handled, got: %v", err)
	}

	if st.NightIndex != 1 {
		t.Fatalf("the sole actor leaving must advance past its turn, got index %d", st.NightIndex)
	}
}

func TestDayVotingStageHandler_AutoAdvancesWhenAllSeatedVoted(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.Phase = PHASE_DAY_VOTING

	ctx := newTestGameContext(st)
	vsh := NewDayVotingStageHandler()
	bindSwitch(vsh, ctx)

	vsh.OnEnter(ctx)

	vote := func(voterID, targetID string) error {
		return vsh.OnHandle(ctx, RequestWrapper{
			ReqType: REQ_VOTE,
			Data:    mustMarshal(VoteRequest{VoterID: voterID, TargetID: targetID}),
		})
	}

	if err := vote("p1", "p2"); err != nil {
		t.Fatalf("vote should succeed, got: %v", err)
	}
	if err := vote("p2", "p1"); err != nil {
		t.Fatalf("vote should succeed, got: %v", err)
	}
	if st.Phase != PHASE_DAY_VOTING {
		t.Fatalf("voting must stay open until everyone voted, got %s", st.Phase)
	}

	if err := vote("p3", "p1"); err != nil {
		t.Fatalf("vote should succeed, got: %v", err)
	}
	if st.Phase != PHASE_DAY_RESULTS {
		t.Fatalf("the last ballot must close the vote, got %s", st.Phase)
	}
}

func TestDayVotingStageHandler_HostCanForceResults(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.Phase = PHASE_DAY_VOTING
	st.FindParticipant("p1").IsHost = true

	ctx := newTestGameContext(st)
	vsh := NewDayVotingStageHandler()
	bindSwitch(vsh, ctx)

	vsh.OnEnter(ctx)

	force := func(requesterID string) error {
		return vsh.OnHandle(ctx, RequestWrapper{
			ReqType: REQ_PHASE_CHANGE,
			Data:    mustMarshal(PhaseChangeRequest{RequesterID: requesterID, Phase: PHASE_DAY_RESULTS}),
		})
	}

	if err := force("p2"); err == nil {
		t.Fatalf("only the host may close the vote early")
	}
	if err := force("p1"); err != nil {
		t.Fatalf("host force close should succeed, got: %v", err)
	}
	if st.Phase != PHASE_DAY_RESULTS {
		t.Fatalf("force close must switch to results, got %s", st.Phase)
	}
}

func TestDayResultsStageHandler_HostResetReturnsToLobby(t *testing.T) {
	st := newDealtState(ROLE_WEREWOLF, ROLE_SEER, ROLE_VILLAGER)
	st.Phase = PHASE_DAY_RESULTS
	st.FindParticipant("p1").IsHost = true
	st.Votes = map[string]string{"p1": "p2", "p2": "p1", "p3": "p1"}

	ctx := newTestGameContext(st)
	rsh := NewDayResultsStageHandler()
	bindSwitch(rsh, ctx)

	rsh.OnEnter(ctx)

	if st.Result == nil {
		t.Fatalf("entering results must compute the verdict")
	}

	badReset := RequestWrapper{
		ReqType: REQ_RESET_GAME,
		Data:    mustMarshal(ResetGameRequest{RequesterID: "p2"}),
	}
	if err := rsh.OnHandle(ctx, badReset); err == nil {
		t.Fatalf("only the host may reset the session")
	}

	reset := RequestWrapper{
		ReqType: REQ_RESET_GAME,
		Data:    mustMarshal(ResetGameRequest{RequesterID: "p1"}),
	}
	if err := rsh.OnHandle(ctx, reset); err != nil {
		t.Fatalf("host reset should succeed, got: %v", err)
	}

	if st.Phase != PHASE_LOBBY {
		t.Fatalf("reset must return to the lobby, got %s", st.Phase)
	}
	if st.Result != nil {
		t.Fatalf("reset must drop the previous verdict")
	}
	if st.FindParticipant("p1").Seat != 1 {
		t.Fatalf("reset must keep participants seated")
	}
}
