package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// 全量快照比单条聊天消息大得多，缓冲按快照体量取
var upgrader = websocket.Upgrader{
	// 加入链接通过二维码在面对面场景分发，访客可能来自任意来源，
	// 这里不校验 Origin，操作权限完全由会话内的房主身份控制
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// 心跳超时必须盖过最长的阶段停顿（亮牌倒计时加上最长的夜晚回合），
// 避免访客在安静看牌的时候被误判掉线
const (
	HEARTBEAT_INTERVAL = 20 * time.Second
	HEARTBEAT_TIMEOUT  = 60 * time.Second
)

// Pong 回调：每次收到心跳应答就顺延读超时
func heartbeatHandler(conn *websocket.Conn) func(string) error {
	return func(string) error {
		return conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	}
}
