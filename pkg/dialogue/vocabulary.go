package dialogue

var (
	ExitKeywords     = []string{"lain", "tidak", "gak", "stop", "keluar", "selesai", "cukup", "sudah"}
	GreetingKeywords = []string{"halo", "hai", "hello", "hi", "selamat"}

	FallbackResponses = []string{
		"Maaf, saya belum memahami. Bisa tolong diperjelas?",
		"Saya bisa membantu dengan informasi tentang: jurusan, beasiswa, asrama, shuttle bus, dll.",
		"Coba tanyakan hal spesifik seperti: 'beasiswa untuk mahasiswa baru' atau 'jadwal shuttle bus'",
	}
)

const (
	PromptForInput      = "Silakan ketik pesan Anda."
	MessageTooLong      = "Pesan terlalu panjang. Maksimal %d karakter."
	DefaultGreeting     = "Halo! Ada yang bisa saya bantu?"
	ExitAcknowledgement = "Baik, ada yang bisa saya bantu lagi?"
	FlowClosing         = "Ada pertanyaan lain tentang topik ini?"
	MissingOptionReply  = "Terima kasih informasinya. Ada lagi yang bisa saya bantu?"
)
