package app

import "space-adventure-service/internal/domain"

// MenuEntry is one tile of the main menu. Exactly one of Game and Workshop is set.
type MenuEntry struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Hint     string          `json:"hint"`
	Game     domain.GameKind `json:"game,omitempty"`
	Workshop string          `json:"workshop,omitempty"`
}

// Menu lists the screens reachable from the main menu, in display order.
func Menu() []MenuEntry {
	return []MenuEntry{
		{ID: "create", Label: "Karakter Yap", Hint: "Kendi uzaylını tasarla!", Workshop: "character"},
		{ID: "video_create", Label: "Uzay Videosu", Hint: "Karakterini canlandır, çizgi film yap!", Workshop: "animation"},
		{ID: "coloring", Label: "Boya", Hint: "Şifreyi çöz, boyama yap!", Workshop: "coloring"},
		{ID: "cipher_logic", Label: "Şifre Oyunu", Hint: "Sembollerin sayılarını bul!", Game: domain.KindCipherLogic},
		{ID: "find_different", Label: "Farklıyı Bul", Hint: "Hangisi diğerlerinden farklı?", Game: domain.KindFindDifferent},
		{ID: "numbered_different", Label: "Sayıyı Söyle", Hint: "Farklı olanın numarasını söyle!", Game: domain.KindNumberedDifferent},
		{ID: "pattern", Label: "Sıradaki Ne?", Hint: "Örüntüyü tamamla.", Game: domain.KindPattern},
		{ID: "memory", Label: "Hafıza", Hint: "Kaybolan cismi hatırla!", Game: domain.KindMemory},
		{ID: "command", Label: "Robot Komut", Hint: "Robotu hedefe götür.", Game: domain.KindRobotCommand},
		{ID: "pairs", Label: "Eşleştirme", Hint: "Aynı kartları bul.", Game: domain.KindPairs},
		{ID: "story", Label: "Uzay Masalı", Hint: "Masalı dinle, soruları cevapla.", Game: domain.KindStory},
		{ID: "practice", Label: "BİLSEM Prova", Hint: "Büyük sınav provası!", Game: domain.KindPractice},
	}
}
