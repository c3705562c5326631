package classification

import (
	"strings"
	"testing"

	"github.com/Veraticus/aneks/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		rules   []Rule
		wantErr bool
	}{
		{
			name:    "default rules",
			rules:   DefaultRules(),
			wantErr: false,
		},
		{
			name: "invalid regex",
			rules: []Rule{
				{Name: "Bad Rule", DocType: model.DocAnnex, Regex: `[invalid regex`, Priority: 1},
			},
			wantErr: true,
			errMsg:  "failed to compile rule",
		},
		{
			name: "invalid doc type",
			rules: []Rule{
				{Name: "Bad Type", DocType: model.DocType("letter"), Regex: `pismo`, Priority: 1},
			},
			wantErr: true,
			errMsg:  "invalid document type",
		},
		{
			name:    "empty rules",
			rules:   []Rule{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.rules)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, c)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, len(tt.rules), c.RuleCount())
			for i := 0; i < len(c.rules)-1; i++ {
				assert.GreaterOrEqual(t, c.rules[i].Priority, c.rules[i+1].Priority)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := Default()

	tests := []struct {
		filename string
		ext      string
		want     model.DocType
	}{
		{"Ugovor o održavanju.docx", ".docx", model.DocMaintenanceContract},
		{"Ugovor_o_održavanju.docx", ".docx", model.DocMaintenanceContract},
		{"UGOVOR O SERVISIRANJU opreme.pdf", ".pdf", model.DocMaintenanceContract},
		{"Ugovor o pružanju usluga.doc", ".DOC", model.DocMaintenanceContract},
		{"Aneks_U-24-01.docx", ".docx", model.DocAnnex},
		{"Dodatak ugovoru.docx", ".docx", model.DocAnnex},
		{"Raskid ugovora.pdf", ".pdf", model.DocTermination},
		{"Raskid_Aneks_Klijent.docx", ".docx", model.DocTermination},
		{"Izjava o povjerljivosti.pdf", ".pdf", model.DocNDA},
		{"Klijent NDA.docx", ".docx", model.DocNDA},
		{"Ugovor o obradi podataka.docx", ".docx", model.DocGDPR},
		{"Office 365 ugovor.docx", ".docx", model.DocM365Contract},
		{"Ponuda 2024.pdf", ".pdf", model.DocOffer},
		{"Cjenik usluga.xlsx.pdf", ".pdf", model.DocPriceList},
		{"Prilog 1.pdf", ".pdf", model.DocAttachment},
		{"Ugovor.docx", ".docx", model.DocOtherContract},
		{"Cooperation agreement.pdf", ".pdf", model.DocOtherContract},
		{"Dopis.docx", ".docx", model.DocOtherContract},
		{"scan0001.pdf", ".pdf", model.DocIrrelevant},
		{"Ugovor.xlsx", ".xlsx", model.DocIrrelevant},
		{"Aneks.txt", ".txt", model.DocIrrelevant},
		{"standardni dopis.docx", ".docx", model.DocOtherContract},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.filename, tt.ext))
		})
	}
}

func TestClassifier_DecomposedInput(t *testing.T) {
	// "ž" written as z + combining caron, as produced by some macOS exports.
	decomposed := "Ugovor o odrz\u030cavanju.docx"
	assert.Equal(t, model.DocMaintenanceContract, Default().Classify(decomposed, ".docx"))
}

// Whatever order trigger keywords appear in, the highest-priority rule wins.
func TestClassifier_PriorityIsOrderIndependent(t *testing.T) {
	keywords := []struct {
		word string
		doc  model.DocType
		rank int
	}{
		{"raskid", model.DocTermination, 0},
		{"aneks", model.DocAnnex, 1},
		{"ugovor o održavanju", model.DocMaintenanceContract, 2},
		{"ponuda", model.DocOffer, 3},
		{"cjenik", model.DocPriceList, 4},
		{"prilog", model.DocAttachment, 5},
	}

	rapid.Check(t, func(rt *rapid.T) {
		picked := rapid.SliceOfNDistinct(rapid.IntRange(0, len(keywords)-1), 1, len(keywords), rapid.ID[int]).Draw(rt, "keywords")
		sep := rapid.SampledFrom([]string{" ", "_", " - "}).Draw(rt, "sep")

		parts := make([]string, 0, len(picked)+1)
		best := picked[0]
		for _, idx := range picked {
			parts = append(parts, keywords[idx].word)
			if keywords[idx].rank < keywords[best].rank {
				best = idx
			}
		}
		parts = append(parts, "Klijent")
		name := strings.Join(parts, sep) + ".docx"

		got := Default().Classify(name, ".docx")
		if got != keywords[best].doc {
			rt.Fatalf("Classify(%q) = %s, want %s", name, got, keywords[best].doc)
		}
	})
}

func TestExtractContractNumber(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Aneks_U-24-01.docx", "U-24-01"},
		{"aneks u-25-103.pdf", "U-25-103"},
		{"Ugovor U-21-15 i U-22-01.docx", "U-21-15"},
		{"Ugovor.docx", ""},
		{"U-2-01.docx", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContractNumber(tt.name))
		})
	}
}

func TestParseContractNumber(t *testing.T) {
	year, seq, ok := ParseContractNumber("U-25-103")
	require.True(t, ok)
	assert.Equal(t, 25, year)
	assert.Equal(t, 103, seq)

	_, _, ok = ParseContractNumber("")
	assert.False(t, ok)
}
