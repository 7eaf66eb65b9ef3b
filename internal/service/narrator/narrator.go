package narrator

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// 本包收拢会话引擎的外部协作者：旁白生成与规则问答
// 它们都只在接口边界上被依赖，任何失败都必须优雅降级，
// 绝不允许阻塞或中断阶段推进

// Narrator 为阶段切换生成旁白文本
// 返回空串表示该阶段没有旁白，调用方直接跳过
type Narrator interface {
	PhaseLine(phase string) string
}

// 内置的静态旁白，纯内存查表，永不失败
type staticNarrator struct {
	lines map[string]string
}

func NewStaticNarrator() Narrator {
	return &staticNarrator{
		lines: map[string]string{
			"Lobby":         "欢迎来到一夜终极狼人，等待所有玩家入座",
			"RoleReveal":    "请查看自己的身份牌，不要让别人看到",
			"NightIntro":    "天黑请闭眼",
			"NightActive":   "夜晚行动开始",
			"DayDiscussion": "天亮了，请根据夜晚的线索展开讨论",
			"DayVoting":     "讨论结束，请投出你怀疑的对象",
			"GameOver":      "本次会话已结束，感谢游玩",
		},
	}
}

func (sn *staticNarrator) PhaseLine(phase string) string {
	return sn.lines[phase]
}

// RuleOracle 回答自然语言的规则提问
type RuleOracle interface {
	Ask(ctx context.Context, question string) (string, error)
}

// 规则问答失败时展示给用户的兜底话术
const FALLBACK_ANSWER = "暂时无法回答这个问题，请翻阅说明书或询问其他玩家"

// fallbackOracle 包装任意一个 RuleOracle：
// 内层调用失败时返回兜底话术而不是把错误抛给上层
type fallbackOracle struct {
	inner RuleOracle
}

func NewFallbackOracle(inner RuleOracle) RuleOracle {
	return &fallbackOracle{inner: inner}
}

func (fo *fallbackOracle) Ask(ctx context.Context, question string) (string, error) {
	answer, err := fo.inner.Ask(ctx, question)
	if err != nil {
		zap.L().Warn(
			"规则问答服务调用失败，返回兜底话术",
			zap.Error(err),
		)
		return FALLBACK_ANSWER, nil
	}

	return answer, nil
}

// 内置的关键词规则库，离线可用
type staticOracle struct {
	answers map[string]string
}

func NewStaticOracle() RuleOracle {
	return &staticOracle{
		answers: map[string]string{
			"强盗":  "强盗与一名其他玩家交换手牌，并查看自己的新身份",
			"捣蛋鬼": "捣蛋鬼交换两名其他玩家的手牌，自己不查看任何牌",
			"酒鬼":  "酒鬼与一张中央区卡牌交换手牌，且不查看新身份",
			"预言家": "预言家查看一名玩家的手牌，或查看两张中央区卡牌",
			"皮匠":  "皮匠被处决时单独获胜，覆盖其他所有结果",
			"猎人":  "猎人被处决时，他投票指向的玩家一同出局",
			"平票":  "得票最高者全部被处决，平票不加赛也不随机裁定",
		},
	}
}

func (so *staticOracle) Ask(_ context.Context, question string) (string, error) {
	for keyword, answer := range so.answers {
		if strings.Contains(question, keyword) {
			return answer, nil
		}
	}

	return "", errors.New("规则库中没有匹配的条目")
}
