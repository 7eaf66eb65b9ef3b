package service

import (
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/game"
)

// 房间保留上限，超时未结束的房间视为被遗弃
const ROOM_MAX_AGE = 24 * time.Hour

func isRoomExpired(machine *game.GameMachine) bool {
	if machine == nil {
		return true
	}

	if machine.IsFinished() {
		return true
	}

	return time.Since(machine.CreatedAt()) > ROOM_MAX_AGE
}
