package dialogue

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrFlowNoTag         = errors.New("flow tag is empty")
	ErrFlowDuplicate     = errors.New("duplicate flow tag")
	ErrFlowNoSteps       = errors.New("flow has no steps")
	ErrFlowNoDefault     = errors.New("flow default response is empty")
	ErrStepNoPrompt      = errors.New("flow step prompt is empty")
	ErrStepNoOptions     = errors.New("flow step has no options")
	ErrStepDupOption     = errors.New("flow step option repeated")
	ErrStepUnknownOption = errors.New("flow step response for undeclared option")
)

type Step struct {
	Prompt          string            `yaml:"prompt" json:"prompt"`
	Options         []string          `yaml:"options" json:"options"`
	OptionResponses map[string]string `yaml:"option_responses" json:"option_responses"`
}

type Flow struct {
	Tag             string `yaml:"tag" json:"tag"`
	DefaultResponse string `yaml:"default_response" json:"default_response"`
	Steps           []Step `yaml:"steps" json:"steps"`
}

// FlowTable is the validated, read-only set of conversation flows. Options
// are stored lowercased so they can be matched against normalized input.
type FlowTable struct {
	flows map[string]Flow
	order []string
}

type flowFile struct {
	Flows []Flow `yaml:"flows"`
}

func NewFlowTable(flows []Flow) (*FlowTable, error) {
	table := &FlowTable{
		flows: make(map[string]Flow, len(flows)),
	}

	for _, f := range flows {
		normalized, err := normalizeFlow(f)
		if err != nil {
			return nil, err
		}
		if _, exists := table.flows[normalized.Tag]; exists {
			return nil, fmt.Errorf("%w: %s", ErrFlowDuplicate, normalized.Tag)
		}
		table.flows[normalized.Tag] = normalized
		table.order = append(table.order, normalized.Tag)
	}

	return table, nil
}

func normalizeFlow(f Flow) (Flow, error) {
	tag := strings.TrimSpace(f.Tag)
	if tag == "" {
		return Flow{}, ErrFlowNoTag
	}
	if len(f.Steps) == 0 {
		return Flow{}, fmt.Errorf("%w: %s", ErrFlowNoSteps, tag)
	}
	if strings.TrimSpace(f.DefaultResponse) == "" {
		return Flow{}, fmt.Errorf("%w: %s", ErrFlowNoDefault, tag)
	}

	out := Flow{Tag: tag, DefaultResponse: f.DefaultResponse, Steps: make([]Step, 0, len(f.Steps))}

	for i, step := range f.Steps {
		if strings.TrimSpace(step.Prompt) == "" {
			return Flow{}, fmt.Errorf("%w: %s step %d", ErrStepNoPrompt, tag, i)
		}
		if len(step.Options) == 0 {
			return Flow{}, fmt.Errorf("%w: %s step %d", ErrStepNoOptions, tag, i)
		}

		s := Step{
			Prompt:          step.Prompt,
			Options:         make([]string, 0, len(step.Options)),
			OptionResponses: make(map[string]string, len(step.Options)),
		}
		for _, opt := range step.Options {
			o := strings.ToLower(strings.TrimSpace(opt))
			if o == "" {
				return Flow{}, fmt.Errorf("%w: %s step %d has a blank option", ErrStepNoOptions, tag, i)
			}
			if _, dup := s.OptionResponses[o]; dup {
				return Flow{}, fmt.Errorf("%w: %s step %d option %q", ErrStepDupOption, tag, i, o)
			}
			s.Options = append(s.Options, o)
			s.OptionResponses[o] = MissingOptionReply
		}
		for opt, reply := range step.OptionResponses {
			o := strings.ToLower(strings.TrimSpace(opt))
			if _, declared := s.OptionResponses[o]; !declared {
				return Flow{}, fmt.Errorf("%w: %s step %d option %q", ErrStepUnknownOption, tag, i, opt)
			}
			if strings.TrimSpace(reply) != "" {
				s.OptionResponses[o] = reply
			}
		}

		out.Steps = append(out.Steps, s)
	}

	return out, nil
}

func LoadFlows(path string) (*FlowTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flows %s: %w", path, err)
	}

	var file flowFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode flows %s: %w", path, err)
	}

	return NewFlowTable(file.Flows)
}

func (t *FlowTable) Get(tag string) (Flow, bool) {
	if t == nil {
		return Flow{}, false
	}
	f, ok := t.flows[tag]
	return f, ok
}

func (t *FlowTable) Has(tag string) bool {
	_, ok := t.Get(tag)
	return ok
}

func (t *FlowTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

func (t *FlowTable) Tags() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// DefaultFlows are the built-in campus topics used when no flows file is configured.
func DefaultFlows() []Flow {
	return []Flow{
		{
			Tag:             "asrama_mahasiswa",
			DefaultResponse: "🏠 **Informasi Asrama Mahasiswa**\n\nAda yang spesifik ingin Anda tanyakan?\n1. Biaya asrama\n2. Fasilitas kamar\n3. Cara pendaftaran\n4. Syarat & kuota",
			Steps: []Step{{
				Prompt:  "Apakah Anda ingin tahu tentang biaya asrama atau fasilitas?",
				Options: []string{"biaya", "fasilitas", "pendaftaran", "semua"},
				OptionResponses: map[string]string{
					"biaya":       "🏠 **Biaya Asrama (per semester):**\n1. Standard: Rp 1.5-2.5 juta\n2. Premium: Rp 2.5-3.5 juta\n3. VIP: Rp 3.5-4.5 juta\n\nIngin tahu fasilitas masing-masing tipe?",
					"fasilitas":   "🛏️ **Fasilitas Asrama:**\n• Standard: Kamar 3x3m, AC, WiFi area umum\n• Premium: Kamar 4x4m, kamar mandi dalam, water heater\n• VIP: Kitchenette kecil, cleaning service 2x/minggu\n\nIngin tahu biaya atau cara pendaftaran?",
					"pendaftaran": "📝 **Pendaftaran Asrama:**\n• Waktu: 2 minggu sebelum semester\n• Portal: portal.kampus.ac.id/asrama\n• Kuota: 200 kamar/semester\n• Prioritas: Mahasiswa baru & IPK ≥ 3.0\n\nAda yang ingin ditanyakan lagi tentang asrama?",
					"semua":       "🏠 **Informasi Lengkap Asrama:**\n\n**Biaya (per semester):**\n1. Standard: Rp 1.5-2.5 juta\n2. Premium: Rp 2.5-3.5 juta\n3. VIP: Rp 3.5-4.5 juta\n\n**Fasilitas:**\n• Standard: Kamar 3x3m, AC, WiFi\n• Premium: Kamar mandi dalam, water heater\n• VIP: Kitchenette, cleaning service\n\n**Pendaftaran:** portal.kampus.ac.id/asrama\n\nAda pertanyaan lain?",
				},
			}},
		},
		{
			Tag:             "informasi_jurusan",
			DefaultResponse: "🎓 **Informasi Jurusan & Fakultas**\n\nKami memiliki 12 fakultas. Fakultas apa yang ingin Anda ketahui?\n(contoh: teknik, kedokteran, ekonomi, hukum)",
			Steps: []Step{{
				Prompt:  "Fakultas apa yang ingin Anda ketahui?",
				Options: []string{"teknik", "kedokteran", "ekonomi", "hukum", "semua"},
				OptionResponses: map[string]string{
					"teknik":     "🎓 **Fakultas Teknik:**\n• Teknik Informatika\n• Teknik Sipil\n• Teknik Elektro\n• Teknik Mesin\n• Teknik Industri\n\nIngin tahu jurusan lain atau detail perkuliahan?",
					"kedokteran": "🏥 **Fakultas Kedokteran:**\n• Pendidikan Dokter\n• Ilmu Keperawatan\n• Farmasi\n• Gizi Klinik\n\nAda yang spesifik tentang kedokteran?",
					"ekonomi":    "💰 **Fakultas Ekonomi:**\n• Manajemen\n• Akuntansi\n• Ekonomi Pembangunan\n• Bisnis Digital\n\nIngin tahu prospek kerja atau kurikulum?",
					"hukum":      "⚖️ **Fakultas Hukum:**\n• Ilmu Hukum\n• Hukum Internasional\n• Hukum Bisnis\n\nAda pertanyaan tentang fakultas hukum?",
					"semua":      "🏛️ **12 Fakultas dengan 50+ Program Studi:**\n\n1. Teknik (Informatika, Sipil, Elektro, Mesin)\n2. Kedokteran (Dokter, Keperawatan, Farmasi)\n3. Ekonomi (Manajemen, Akuntansi, Bisnis)\n4. Hukum (Ilmu Hukum, Hukum Internasional)\n5. Psikologi\n6. Arsitektur\n7. Pertanian\n8. Ilmu Sosial & Politik\n9. Sastra & Budaya\n10. Matematika & IPA\n11. Teknologi Pertanian\n12. Ilmu Komputer\n\nFakultas mana yang ingin didetailkan?",
				},
			}},
		},
		{
			Tag:             "beasiswa",
			DefaultResponse: "💰 **Informasi Beasiswa**\n\nBeasiswa apa yang ingin Anda ketahui?\n1. Beasiswa Prestasi\n2. KIP-Kuliah\n3. Beasiswa Perusahaan\n4. Syarat umum",
			Steps: []Step{{
				Prompt:  "Jenis beasiswa apa yang ingin Anda ketahui?",
				Options: []string{"prestasi", "kip-kuliah", "perusahaan", "semua", "syarat"},
				OptionResponses: map[string]string{
					"prestasi":   "🏆 **Beasiswa Prestasi:**\n• IPK min 3.5\n• Tidak ada nilai D/E\n• Aktif organisasi (nilai tambah)\n• Pendaftaran: awal semester\n• Benefit: Bebas UKT + tunjangan\n\nIngin tahu beasiswa lain?",
					"kip-kuliah": "💙 **Beasiswa KIP-Kuliah:**\n• Untuk ekonomi kurang mampu\n• SKTM dari kelurahan\n• Pendaftaran via portal KIP-Kuliah\n• Benefit: Full tuition + living allowance\n\nAda pertanyaan tentang KIP?",
					"perusahaan": "🏢 **Beasiswa Perusahaan:**\n• Dari mitra: Telkom, Bank Mandiri, Astra\n• Syarat: IPK min 3.0, tes wawancara\n• Benefit: Tuition + magang di perusahaan\n• Ikatan dinas: 1-2 tahun\n\nIngin tahu syarat lengkap?",
					"semua":      "💰 **Semua Beasiswa Tersedia:**\n\n1. **Prestasi** (IPK ≥ 3.5) - Bebas UKT\n2. **KIP-Kuliah** (Ekonomi kurang mampu) - Full support\n3. **Perusahaan** (Telkom, Mandiri, Astra) - Tuition + magang\n4. **Pemerintah Daerah** (Sesuai asal) - Beragam\n\nBeasiswa mana yang ingin didetailkan?",
					"syarat":     "📋 **Syarat Umum Beasiswa:**\n1. Mengisi formulir online\n2. Transkrip nilai terakhir\n3. Surat rekomendasi dosen\n4. Essay motivasi\n5. Fotokopi KTM & KTP\n6. Pas foto 4x6\n\nPendaftaran: beasiswa.kampus.ac.id",
				},
			}},
		},
		{
			Tag:             "bus_schedule",
			DefaultResponse: "🚌 **Informasi Shuttle Bus**\n\nApa yang ingin Anda ketahui?\n1. Jadwal operasional\n2. Rute perjalanan\n3. Aplikasi tracking\n4. Kontak & informasi",
			Steps: []Step{{
				Prompt:  "Informasi shuttle bus apa yang Anda butuhkan?",
				Options: []string{"jadwal", "rute", "aplikasi", "semua"},
				OptionResponses: map[string]string{
					"jadwal":   "⏰ **Jam Operasional Shuttle:**\n• Senin-Jumat: 06.30 - 21.00\n• Sabtu: 07.00 - 18.00\n• Minggu: 08.00 - 16.00\n• Frekuensi: 15-20 menit sekali\n\nIngin tahu rute atau aplikasi tracking?",
					"rute":     "🗺️ **3 Rute Utama:**\n\n1. **Merah:** Gerbang Utama → Teknik → Perpustakaan\n2. **Biru:** Gerbang Timur → Kedokteran → Student Center\n3. **Hijau:** Gerbang Barat → Ekonomi → Asrama\n\nAda rute spesifik yang ingin ditanyakan?",
					"aplikasi": "📱 **Aplikasi Campus Transport:**\n• Live tracking bus\n• Notifikasi kedatangan\n• Info delay & gangguan\n• Download: Play Store/App Store\n\nFitur: real-time location, estimated time arrival",
					"semua":    "🚌 **Info Lengkap Shuttle Bus:**\n\n**Jam:** 06.30-21.00 (Weekdays)\n**Rute:** 3 jalur (Merah, Biru, Hijau)\n**App:** Campus Transport (live tracking)\n**Kontak:** (021) 1234-5678 ext. 901\n\nAda yang spesifik?",
				},
			}},
		},
	}
}
