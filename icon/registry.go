package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Warn
	Progress
	Mark
	Play
	Pause
	Video
	Audio
	Subtitle
	Window
)

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "x", kaomoji: "(×_×)", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(・_・;)", squares: "🟨"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", kaomoji: "(o_o)", squares: "🟦"},
	Mark:     {emoji: "🔖", nerd: "", plain: "*", kaomoji: "(>_<)", squares: "🟪"},
	Play:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(ง'̀-'́)ง", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(-_-)zzz", squares: "🟧"},
	Video:    {emoji: "🎞️", nerd: "", plain: "V", kaomoji: "[▶]", squares: "🟦"},
	Audio:    {emoji: "🔊", nerd: "", plain: "A", kaomoji: "♪(´▽｀)", squares: "🟨"},
	Subtitle: {emoji: "💬", nerd: "", plain: "S", kaomoji: "(・o・)", squares: "⬜"},
	Window:   {emoji: "🪟", nerd: "", plain: "#", kaomoji: "[ ]", squares: "⬛"},
}
