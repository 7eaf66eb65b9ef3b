package http

import (
	"fmt"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/api/http/websocket"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	app.HandleDir(
		"/",
		iris.Dir("./werewolf-fe"),
		iris.DirOptions{
			IndexName: "index.html",
			SPA:       true,
			Compress:  true,
		},
	)

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Get("/rooms/invite", InviteQR(appState))
	api.Post("/rules/ask", AskRule(appState))

	api.Get("/ws/join", websocket.JoinSession(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
