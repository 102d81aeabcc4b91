package llm

import "fmt"

// SymbolPrompt asks for the Taiwan ticker of free-text input.
func SymbolPrompt(input string) Prompt {
	return Prompt{
		User: fmt.Sprintf("將以下輸入轉換為台灣股票代號（必須以 .TW 或 .TWO 結尾，例如 2330.TW）。"+
			"如果輸入是 '台積電' 或 'TSMC'，應回傳 '2330.TW'。輸入：%s。僅回覆代號，例如 2330.TW。", input),
		MaxTokens:   50,
		Temperature: 0.2,
	}
}

// NewsPrompt asks for bilingual placeholder headlines, one "headline - summary" per line.
func NewsPrompt(symbol string) Prompt {
	return Prompt{
		User: fmt.Sprintf("為股票 %s 生成 5 條最近的虛擬新聞標題和摘要（中英雙語），基於常見市場趨勢。"+
			"格式：標題 (中文) / Title (English) - 摘要 (中文) / Summary (English)", symbol),
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

const analysisSystem = "你是一位中英雙語金融分析助理，中英文內容完全對等。請以JSON格式回應: " +
	`{"recommendation": "buy" or "sell" or "hold", "rationale": "中文 rationale\nEnglish rationale", ` +
	`"risk": "中文 risk\nEnglish risk", "summary": "中文 summary\nEnglish summary"}`

// AnalysisPrompt asks for a JSON buy/sell/hold analysis of the given facts.
func AnalysisPrompt(facts string) Prompt {
	return Prompt{
		System:      analysisSystem,
		User:        "請根據以下資訊產出中英文雙語股票分析: " + facts + ". 請提供買入/賣出/持有建議.",
		MaxTokens:   999,
		Temperature: 0.6,
		JSON:        true,
	}
}
