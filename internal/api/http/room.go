package http

import (
	"context"
	"fmt"
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req service.CreateRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		resp, err := appState.RoomSvc.CreateRoom(req)
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(resp)
	}
}

// InviteQR 生成加入链接的二维码图片，方便面对面扫码入局
func InviteQR(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.URLParam("room_id")
		if roomID == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "缺少房间 ID",
			})
			return
		}

		joinURL := fmt.Sprintf("%s/?room_id=%s", appState.Cfg.JoinBaseURL, roomID)

		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			zap.L().Error("生成邀请二维码失败", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}

type askRuleRequest struct {
	Question string `json:"question"`
}

type askRuleResponse struct {
	Answer string `json:"answer"`
}

// AskRule 规则问答接口
// 问答服务失败时由 FallbackOracle 降级为兜底话术，这里永远返回 200
func AskRule(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req askRuleRequest

		if err := ctx.ReadJSON(&req); err != nil || req.Question == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		askCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
		defer cancel()

		answer, _ := appState.Oracle.Ask(askCtx, req.Question)

		ctx.JSON(askRuleResponse{Answer: answer})
	}
}
