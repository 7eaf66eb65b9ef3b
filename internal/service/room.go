package service

import (
	"errors"
	"sync"
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/game"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateRoomRequest struct {
	RoomName    string `json:"room_name"`
	PlayerCount int    `json:"player_count"`
}

type CreateRoomResponse struct {
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
	PlayerCount int    `json:"player_count"`
}

// RoomService 管理所有会话状态机：
// 每个房间一个独立协程，创建后所有交互都通过请求通道进行
type RoomService struct {
	state *roomServiceState

	narr narrator.Narrator
}

type roomServiceState struct {
	mu sync.RWMutex

	// 均为从房间 ID 到实体的映射
	machines       map[string]*game.GameMachine
	roomNames      map[string]string
	roomDoneChList map[string]chan struct{}

	cleanUpDone chan struct{}
}

func NewRoomService(narr narrator.Narrator) *RoomService {
	state := &roomServiceState{
		machines:       make(map[string]*game.GameMachine),
		roomNames:      make(map[string]string),
		roomDoneChList: make(map[string]chan struct{}),
		cleanUpDone:    make(chan struct{}),
	}

	// 启动一个 goroutine 定期清理已结束或过期的房间
	go startCleanupLoop(state)

	return &RoomService{
		state: state,
		narr:  narr,
	}
}

func startCleanupLoop(state *roomServiceState) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-state.cleanUpDone:
			return

		case <-ticker.C:
			state.mu.Lock()

			for roomID, machine := range state.machines {
				if !isRoomExpired(machine) {
					continue
				}

				zap.S().Infof("房间 %s 已结束或过期，开始清理", roomID)

				// 已结束的状态机协程早已退出，关闭 done 只是兜底
				close(state.roomDoneChList[roomID])

				delete(state.machines, roomID)
				delete(state.roomNames, roomID)
				delete(state.roomDoneChList, roomID)
			}

			state.mu.Unlock()
		}
	}
}

func (rs *RoomService) Close() {
	close(rs.state.cleanUpDone)

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomID, doneCh := range rs.state.roomDoneChList {
		close(doneCh)
		delete(rs.state.roomDoneChList, roomID)
		delete(rs.state.machines, roomID)
		delete(rs.state.roomNames, roomID)
	}
}

func (rs *RoomService) CreateRoom(req CreateRoomRequest) (CreateRoomResponse, error) {
	if req.RoomName == "" {
		return CreateRoomResponse{}, errors.New("房间名称不能为空")
	}
	if req.PlayerCount < game.MIN_PLAYER_COUNT || req.PlayerCount > game.MAX_PLAYER_COUNT {
		return CreateRoomResponse{}, errors.New("目标人数必须在 3 到 10 之间")
	}

	roomID := uuid.New().String()[:8]
	doneCh := make(chan struct{})

	machine := game.NewGameMachine(roomID, req.PlayerCount, rs.narr, doneCh)

	rs.state.mu.Lock()
	rs.state.machines[roomID] = machine
	rs.state.roomNames[roomID] = req.RoomName
	rs.state.roomDoneChList[roomID] = doneCh
	rs.state.mu.Unlock()

	// 每个房间一个独立的状态机协程
	go machine.Start()

	zap.S().Infof("房间 %s(%s) 创建成功，目标人数 %d", roomID, req.RoomName, req.PlayerCount)

	return CreateRoomResponse{
		RoomID:      roomID,
		RoomName:    req.RoomName,
		PlayerCount: req.PlayerCount,
	}, nil
}

// JoinRoom 返回目标房间状态机的请求通道
// 真正的参与者注册由调用方发送 Hello 请求完成
func (rs *RoomService) JoinRoom(roomID string) (chan game.RequestWrapper, error) {
	if roomID == "" {
		return nil, errors.New("房间 ID 不能为空")
	}

	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	machine, ok := rs.state.machines[roomID]
	if !ok {
		return nil, errors.New("房间不存在")
	}

	return machine.GetReqCh(), nil
}
