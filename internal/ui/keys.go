package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"logagrip/internal/domain"
)

// KeysFromMsg decodes a terminal key message into domain keys. A paste or a
// burst of runes becomes one key per rune.
func KeysFromMsg(msg tea.KeyMsg) []domain.Key {
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]domain.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if msg.Alt {
				keys = append(keys, domain.Alt(r))
			} else {
				keys = append(keys, domain.Char(r))
			}
		}
		return keys
	case tea.KeySpace:
		if msg.Alt {
			return []domain.Key{domain.Alt(' ')}
		}
		return []domain.Key{domain.Char(' ')}
	case tea.KeyEnter:
		return []domain.Key{domain.Enter}
	case tea.KeyTab:
		return []domain.Key{domain.Tab}
	case tea.KeyBackspace:
		return []domain.Key{domain.BackSpace}
	case tea.KeyEsc:
		return []domain.Key{domain.Esc}
	case tea.KeyUp:
		return []domain.Key{domain.Up}
	case tea.KeyDown:
		return []domain.Key{domain.Down}
	case tea.KeyLeft:
		return []domain.Key{domain.Left}
	case tea.KeyRight:
		return []domain.Key{domain.Right}
	}

	// tab and enter share codes with ctrl+i and ctrl+m and are matched above
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return []domain.Key{domain.Ctrl('a' + rune(msg.Type-tea.KeyCtrlA))}
	}
	return []domain.Key{domain.Unknown}
}
