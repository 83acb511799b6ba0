package nlp

// DefaultKeywordRules is the ordered keyword fallback table. The first rule
// whose keyword appears in the input wins.
func DefaultKeywordRules() []KeywordRule {
	groups := []struct {
		tag      string
		keywords []string
	}{
		{"informasi_jurusan", []string{"jurusan", "prodi", "fakultas"}},
		{"beasiswa", []string{"beasiswa", "scholarship", "dana", "biaya"}},
		{"asrama_mahasiswa", []string{"asrama", "dorm", "kost", "kamar"}},
		{"bus_schedule", []string{"shuttle", "bus", "angkutan", "transport"}},
		{"jadwal_kuliah", []string{"jadwal", "kuliah", "timetable"}},
		{"facility_hours", []string{"jam", "buka", "tutup", "perpustakaan", "library"}},
		{"parking_info", []string{"parkir", "parking"}},
		{"canteen_food", []string{"kantin", "makan", "food"}},
		{"sport_facilities", []string{"olahraga", "sport", "gym"}},
		{"health_services", []string{"kesehatan", "klinik", "dokter"}},
		{"lab_booking", []string{"lab", "komputer", "booking"}},
		{"sks_dan_ipk", []string{"sks", "ipk", "nilai"}},
		{"krs_dan_kartu_rencana_studi", []string{"krs", "rencana studi"}},
		{"kalender_akademik", []string{"kalender", "akademik"}},
		{"layanan_perpustakaan_digital", []string{"jurnal", "e-journal", "online"}},
		{"greeting", []string{"halo", "hai", "hello", "selamat"}},
	}

	var rules []KeywordRule
	for _, g := range groups {
		for _, kw := range g.keywords {
			rules = append(rules, KeywordRule{Keyword: kw, Tag: g.tag})
		}
	}
	return rules
}
