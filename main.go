package main

import (
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/api/http"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/config"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/logger"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/narrator"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/state"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 旁白与规则问答都是尽力而为的辅助能力，失败时静默降级
	narr := narrator.NewStaticNarrator()
	oracle := narrator.NewFallbackOracle(narrator.NewStaticOracle())

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		service.NewRoomService(narr),
		oracle,
	)

	// 启动服务器
	http.RunServer(appState)
}
