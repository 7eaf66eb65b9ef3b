package websocket

import (
	"encoding/json"
	"time"

	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/service/game"
	"github.com/YZxyzz/One-Night-Ultimate-Werewolf/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// JoinSession 把一条点对点可靠消息通道接入房主状态机
// 首条消息必须是 Hello 握手，此后读协程把访客请求转发给状态机，
// 写协程把状态机的响应（主要是全量快照）发回访客
func JoinSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.URLParam("room_id")
		if roomID == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		// 缓冲响应通道：广播遇到写满的通道会直接丢弃该条消息，
		// 留出余量避免慢客户端丢失快照
		respCh := make(chan game.ResponseWrapper, 64)

		// 读取首次请求，必须是 Hello 握手
		_, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Error(
				"读取首次请求失败",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.Error(err),
			)
			return
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Error(
				"解析首次请求失败",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.Error(err),
			)

			return
		}

		hello := game.TryUnwrapHelloRequest(wrapper)
		if hello == nil {
			zap.L().Error(
				"首次请求不是Hello类型",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.Any("wrapper", wrapper),
			)

			return
		}

		reqCh, err := appState.RoomSvc.JoinRoom(roomID)
		if err != nil {
			zap.L().Error(
				"加入房间失败",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.String("room_id", roomID),
				zap.Error(err),
			)

			return
		}

		// 参与者 ID 由访客生成并随 Hello 携带；缺省时在这里补齐，
		// 连接关闭时要用它发送 Leave
		participantID := hello.Participant.ID
		if participantID == "" {
			participantID = game.ShortID()
			hello.Participant.ID = participantID
		}

		hello.RespCh = respCh

		helloWrapper := game.RequestWrapper{
			ReqType:    game.REQ_HELLO,
			NativeData: hello,
		}

		select {
		case reqCh <- helloWrapper:
		case <-time.After(3 * time.Second):
			zap.L().Error(
				"发送握手请求超时",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.String("room_id", roomID),
			)
			return
		}

		zap.L().Info(
			"访客成功接入会话",
			zap.String("client_ip", ctx.RemoteAddr()),
			zap.String("room_id", roomID),
			zap.String("participant_id", participantID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		clientIP := ctx.RemoteAddr()

		// 写入协程
		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					zap.L().Info(
						"WebSocket写入协程退出",
						zap.String("client_ip", clientIP),
					)
					return

				case <-ticker.C:
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				case resp, ok := <-respCh:
					// 通道关闭说明状态机已移除该参与者（被踢或被重连顶替）
					// 主动关闭连接让读协程立即退出，这是会话终止的唯一信号
					if !ok {
						zap.L().Info(
							"响应通道已关闭，关闭连接并退出写协程",
							zap.String("client_ip", clientIP),
						)

						conn.Close()

						return
					}

					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"发送消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}
				}
			}
		}()

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			// 无效请求静默忽略，只记录日志
			// respCh 可能已被状态机关闭（被踢、被重连顶替），
			// 读协程绝不向它写入
			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Warn(
					"解析消息失败，丢弃该条消息",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				continue
			}

			// 将解析后的请求发送到会话状态机
			select {
			case reqCh <- wrapper:
				zap.L().Debug(
					"发送请求到会话状态机",
					zap.String("client_ip", clientIP),
					zap.String("request_type", wrapper.ReqType),
				)
			default:
				zap.L().Warn(
					"请求通道已满，丢弃该条消息",
					zap.String("client_ip", clientIP),
					zap.String("request_type", wrapper.ReqType),
				)
			}
		}

		// 读循环退出，表示客户端断开连接
		// 发送 Leave 事件通知状态机移除该参与者并重新广播
		zap.L().Info(
			"客户端连接断开，发送离开事件",
			zap.String("client_ip", clientIP),
			zap.String("participant_id", participantID),
		)

		leaveReq := game.LeaveRequest{
			ParticipantID: participantID,
			RespCh:        respCh,
		}

		leaveWrapper := game.RequestWrapper{
			ReqType:    game.REQ_LEAVE,
			NativeData: &leaveReq,
		}

		select {
		case reqCh <- leaveWrapper:
			zap.L().Debug(
				"发送离开事件成功",
				zap.String("participant_id", participantID),
			)
		default:
			zap.L().Warn(
				"发送离开事件失败：请求通道已满",
				zap.String("participant_id", participantID),
			)
		}

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("participant_id", participantID),
		)
	}
}
