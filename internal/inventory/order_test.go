package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/aneks/internal/model"
)

func TestFormatPriority(t *testing.T) {
	assert.Less(t, formatPriority(".docx"), formatPriority(".doc"))
	assert.Less(t, formatPriority(".doc"), formatPriority(".pdf"))
	assert.Less(t, formatPriority(".PDF"), formatPriority(".txt"))
}

func TestCompareFormat(t *testing.T) {
	docx := entry("K/a.docx", model.DocAnnex, "", baseTime)
	doc := entry("K/a.doc", model.DocAnnex, "", baseTime)
	pdf := entry("K/a.pdf", model.DocAnnex, "", baseTime)
	otherDocx := entry("K/b.docx", model.DocAnnex, "", baseTime)

	assert.Negative(t, compareFormat(docx, doc))
	assert.Negative(t, compareFormat(doc, pdf))
	assert.Positive(t, compareFormat(pdf, docx))
	assert.Negative(t, compareFormat(docx, otherDocx), "same format falls back to path")
	assert.Zero(t, compareFormat(docx, docx))
}

func TestCompareChainOrder(t *testing.T) {
	early := entry("K/Aneks U-24-01.docx", model.DocAnnex, "U-24-01", baseTime)
	late := entry("K/Aneks U-25-03.docx", model.DocAnnex, "U-25-03", baseTime.Add(-time.Hour))
	seq := entry("K/Aneks U-24-10.docx", model.DocAnnex, "U-24-10", baseTime)
	unnumbered := entry("K/Aneks.docx", model.DocAnnex, "", baseTime.Add(time.Hour))

	assert.Negative(t, compareChainOrder(early, late), "year wins over mtime")
	assert.Negative(t, compareChainOrder(early, seq), "sequence compares numerically")
	assert.Negative(t, compareChainOrder(unnumbered, early), "missing number sorts first")

	older := entry("K/x.docx", model.DocAnnex, "", baseTime)
	newer := entry("K/a.docx", model.DocAnnex, "", baseTime.Add(time.Minute))
	assert.Negative(t, compareChainOrder(older, newer), "mtime before path")

	noTime := older
	noTime.ModifiedAt = nil
	assert.Negative(t, compareChainOrder(noTime, older))
}
