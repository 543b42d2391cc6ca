package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testKeywords = NewKeywordSet([]string{
	"酸", "盐", "糖", "脂肪", "油", "香精", "防腐剂", "色素", "磷酸", "乳化剂", "抗氧化剂",
})

func TestValidate_Partition(t *testing.T) {
	got := Validate([]string{"柠檬酸", "苹果汁"}, NewKeywordSet([]string{"酸"}))

	assert.Equal(t, []string{"柠檬酸"}, got.Accepted)
	assert.Equal(t, []string{"苹果汁"}, got.Rejected)
	assert.False(t, got.OK())
}

func TestValidate_Empty(t *testing.T) {
	got := Validate(nil, testKeywords)

	assert.NotNil(t, got.Accepted)
	assert.NotNil(t, got.Rejected)
	assert.Empty(t, got.Accepted)
	assert.Empty(t, got.Rejected)
	assert.True(t, got.OK())
}

func TestValidate_CaseSensitive(t *testing.T) {
	kw := NewKeywordSet([]string{"acid"})

	got := Validate([]string{"citric acid", "Citric ACID"}, kw)

	assert.Equal(t, []string{"citric acid"}, got.Accepted)
	assert.Equal(t, []string{"Citric ACID"}, got.Rejected)
}

func TestValidate_Totality(t *testing.T) {
	phrases := []string{"水", "白砂糖", "苹果浓缩汁", "柠檬酸", "食用香精", "水", "山梨酸钾", "β胡萝卜素"}

	got := Validate(phrases, testKeywords)

	// Merging the two subsequences back by original position must rebuild the input.
	merged := make([]string, 0, len(phrases))
	a, r := 0, 0
	for _, p := range phrases {
		switch {
		case a < len(got.Accepted) && got.Accepted[a] == p && IsAdditive(p, testKeywords):
			merged = append(merged, got.Accepted[a])
			a++
		case r < len(got.Rejected) && got.Rejected[r] == p:
			merged = append(merged, got.Rejected[r])
			r++
		}
	}
	assert.Equal(t, phrases, merged)
	assert.Equal(t, len(phrases), len(got.Accepted)+len(got.Rejected))
	assert.Equal(t, []string{"白砂糖", "柠檬酸", "食用香精", "山梨酸钾"}, got.Accepted)
}

func TestValidate_Deterministic(t *testing.T) {
	phrases := []string{"大豆油", "食用盐", "水"}
	first := Validate(phrases, testKeywords)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Validate(phrases, testKeywords))
	}
}

func TestNewKeywordSet(t *testing.T) {
	kw := NewKeywordSet([]string{" 酸 ", "", "盐", "酸", "  "})

	assert.Equal(t, []string{"酸", "盐"}, kw.Words())
	assert.Equal(t, 2, kw.Len())
	assert.False(t, IsAdditive("水", kw), "blank keywords must not match everything")

	words := kw.Words()
	words[0] = "changed"
	assert.Equal(t, []string{"酸", "盐"}, kw.Words())
}

func TestKeywordSet_Match(t *testing.T) {
	word, ok := testKeywords.Match("磷酸三钠")
	assert.True(t, ok)
	assert.Equal(t, "酸", word, "first keyword in configuration order wins")

	_, ok = testKeywords.Match("水")
	assert.False(t, ok)
}
