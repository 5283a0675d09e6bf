package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	KeyTitle          = "ui.title"
	KeyReset          = "ui.reset"
	KeyDiceCount      = "ui.dice_count"
	KeyStart          = "ui.start"
	KeyStop           = "ui.stop"
	KeyAutoStopHint   = "ui.auto_stop_hint"
	KeyHistory        = "ui.history"
	KeyHistoryEmpty   = "ui.history_empty"
	KeyTotal          = "ui.total"
	KeyScore          = "ui.score"
	KeyFooter         = "ui.footer"
	KeyFallback       = "narration.fallback"
	KeyPrompt         = "narration.prompt"
	KeyPromptVictory  = "narration.prompt.victory"
	KeyMoodHappy      = "mood.happy"
	KeyMoodTaunting   = "mood.taunting"
	KeyMoodImpressed  = "mood.impressed"
	KeyMoodNeutral    = "mood.neutral"
	KeyActivityBadge  = "ui.activity"
	KeyNarrationTitle = "ui.narration"
)

func init() {
	zh := language.Chinese
	message.SetString(zh, KeyTitle, "极简骰子")
	message.SetString(zh, KeyReset, "清空记录")
	message.SetString(zh, KeyDiceCount, "骰子个数")
	message.SetString(zh, KeyStart, "开始转动")
	message.SetString(zh, KeyStop, "立即停止！")
	message.SetString(zh, KeyAutoStopHint, "%d秒后将自动停止")
	message.SetString(zh, KeyHistory, "历史记录")
	message.SetString(zh, KeyHistoryEmpty, "还没有投掷记录")
	message.SetString(zh, KeyTotal, "Total")
	message.SetString(zh, KeyScore, "累计得分")
	message.SetString(zh, KeyFooter, "纯净版骰子模拟器 · %d秒自动结算")
	message.SetString(zh, KeyActivityBadge, "Activity")
	message.SetString(zh, KeyNarrationTitle, "骰子大师")
	message.SetString(zh, KeyFallback, "你掷出了 %d！")
	message.SetString(zh, KeyPrompt, "用户刚刚掷出了 %d 个骰子，总和为 %d。\n当前游戏状态：累计得分 %d。\n请作为一个毒舌但幽默的“骰子大师”给予评论。\n回复语言必须是中文。")
	message.SetString(zh, KeyPromptVictory, "所有骰子都是六点，这是一次完美的投掷。")
	message.SetString(zh, KeyMoodHappy, "开心")
	message.SetString(zh, KeyMoodTaunting, "嘲讽")
	message.SetString(zh, KeyMoodImpressed, "惊叹")
	message.SetString(zh, KeyMoodNeutral, "平静")

	en := language.English
	message.SetString(en, KeyTitle, "Minimal Dice")
	message.SetString(en, KeyReset, "Clear history")
	message.SetString(en, KeyDiceCount, "Dice")
	message.SetString(en, KeyStart, "Roll")
	message.SetString(en, KeyStop, "Stop now!")
	message.SetString(en, KeyAutoStopHint, "Stops automatically in %d seconds")
	message.SetString(en, KeyHistory, "History")
	message.SetString(en, KeyHistoryEmpty, "No rolls yet")
	message.SetString(en, KeyTotal, "Total")
	message.SetString(en, KeyScore, "Score")
	message.SetString(en, KeyFooter, "Plain dice simulator · settles automatically after %d seconds")
	message.SetString(en, KeyActivityBadge, "Activity")
	message.SetString(en, KeyNarrationTitle, "Dice master")
	message.SetString(en, KeyFallback, "You rolled %d!")
	message.SetString(en, KeyPrompt, "The player just rolled %d dice for a total of %d.\nCurrent game state: running score %d.\nComment on it as a sharp-tongued but funny \"dice master\".\nReply in English.")
	message.SetString(en, KeyPromptVictory, "Every die landed on six, a perfect roll.")
	message.SetString(en, KeyMoodHappy, "happy")
	message.SetString(en, KeyMoodTaunting, "taunting")
	message.SetString(en, KeyMoodImpressed, "impressed")
	message.SetString(en, KeyMoodNeutral, "neutral")
}
