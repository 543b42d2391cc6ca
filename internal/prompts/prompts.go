package prompts

import (
	"strconv"
	"strings"
)

// ============================================================================
// 共享词库 (Shared Lexicons)
// ============================================================================

// AdditiveKeywords is the default additive lexicon used by the keyword gate.
// 常见添加剂关键词，用于校验所选成分
var AdditiveKeywords = []string{
	"酸", "盐", "糖", "脂肪", "油", "香精", "防腐剂", "色素", "磷酸", "乳化剂", "抗氧化剂",
}

// ============================================================================
// Analysis Prompt (LLM)
// ============================================================================

// AnalysisHeader opens the child-health analysis prompt.
// 分析提示词开头：限定中文、纯文本输出
const AnalysisHeader = "请分析以下食品成分对儿童健康的影响，用中文回答，仅使用纯文本格式，不包含任何Markdown语法或符号："

// AnalysisListLabel prefixes the joined ingredient list.
const AnalysisListLabel = "成分列表："

// AnalysisListSeparator joins ingredient phrases inside the prompt.
const AnalysisListSeparator = ", "

// AnalysisDirectives are the four fixed requirements appended to every prompt.
// 固定要求：危险等级、简明建议、通俗语言、每日建议摄入量
var AnalysisDirectives = []string{
	"按危险等级分类（高/中/低）",
	"给出简明建议",
	"使用通俗易懂的语言",
	"包含每日建议摄入量（如适用）",
}

// BuildAnalysisPrompt renders the analysis prompt for a validated phrase list.
// Phrases are inserted verbatim in the given order; a phrase that itself contains
// the separator is not escaped.
// Parameters:
//   - phrases: accepted ingredient phrases.
//
// Returns:
//   - string: prompt text sent to the chat model.
func BuildAnalysisPrompt(phrases []string) string {
	var b strings.Builder
	b.WriteString(AnalysisHeader)
	b.WriteString("\n")
	b.WriteString(AnalysisListLabel)
	b.WriteString(strings.Join(phrases, AnalysisListSeparator))
	b.WriteString("\n要求：")
	for i, d := range AnalysisDirectives {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(d)
	}
	return b.String()
}

// ============================================================================
// VLM OCR Prompts (Vision Language Model)
// ============================================================================

// VLMOCRSystemPrompt defines the role for label text extraction.
// OCR 系统提示词：仅识别包装上的文字
const VLMOCRSystemPrompt = `你是食品包装OCR文字识别助手，只负责提取图片中的文字内容。`

// VLMOCRUserPrompt asks for the recognized text only, one printed line per output line.
// OCR 用户提示词：逐行输出识别文本
const VLMOCRUserPrompt = `请只输出图片中的文字内容，保持原有顺序与换行，每一行对应包装上的一行文字，不要解释或添加任何前缀。
如果图片中没有文字，请输出空字符串。`

// ============================================================================
// UI Copy
// ============================================================================

// UsageHint explains the workflow to API and CLI users.
const UsageHint = "使用说明：上传图片后，系统将自动识别并切分成分块，可选中成分后获取健康分析建议。请确保图片清晰。可一键全选或手动选择成分。添加剂分析需至少包含酸、盐、糖、脂肪等关键词。"

// Disclaimer is shown next to every analysis result.
const Disclaimer = "基于大模型与OCR技术，结果仅供参考，具体建议请咨询专业营养师"
