package state

import (
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/config"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"
)

type AppState struct {
	Cfg     *config.AppConfig
	RoomSvc *service.RoomService
	Oracle  narrator.RuleOracle
}

func NewAppState(
	cfg *config.AppConfig,
	roomSvc *service.RoomService,
	oracle narrator.RuleOracle,
) *AppState {
	return &AppState{
		Cfg:     cfg,
		RoomSvc: roomSvc,
		Oracle:  oracle,
	}
}
