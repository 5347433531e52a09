package util_test

import (
	"testing"

	"github.com/inreleppik/shortlink/internal/util"
	"github.com/stretchr/testify/assert"
)

// Тест генерации короткого кода
func TestAllocateCode_Generated(t *testing.T) {
	code1 := util.AllocateCode("")
	code2 := util.AllocateCode("")

	assert.Len(t, code1, 8)
	assert.Len(t, code2, 8)
	assert.NotEqual(t, code1, code2)
}

// Пользовательский alias возвращается как есть
func TestAllocateCode_CustomAlias(t *testing.T) {
	assert.Equal(t, "my-alias", util.AllocateCode("my-alias"))
	assert.Equal(t, "my-alias", util.AllocateCode("  my-alias  "))
	assert.Len(t, util.AllocateCode("   "), 8)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://x.com", util.NormalizeURL("https://x.com/"))
	assert.Equal(t, "https://x.com", util.NormalizeURL("  https://x.com  "))
	assert.Equal(t, "https://x.com/a", util.NormalizeURL("https://x.com/a//"))
	assert.Equal(t, "https://x.com/a?q=1", util.NormalizeURL("https://x.com/a?q=1"))
}
