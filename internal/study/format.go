package study

import "fmt"

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func DifficultyIcon(difficulty string) string {
	switch difficulty {
	case "easy":
		return "🟢"
	case "medium":
		return "🟡"
	case "hard":
		return "🔴"
	default:
		return "🟣"
	}
}

// DifficultyGradient is the card gradient class pair for a difficulty.
func DifficultyGradient(difficulty string) string {
	switch difficulty {
	case "easy":
		return "from-green-400 to-blue-500"
	case "medium":
		return "from-yellow-400 to-orange-500"
	case "hard":
		return "from-red-400 to-pink-500"
	default:
		return "from-purple-400 to-blue-500"
	}
}
