package report

import "StockLens/internal/model"

// industryZH localizes the provider's industry names.
var industryZH = map[string]string{
	"Technology":             "科技業",
	"Financial Services":     "金融服務業",
	"Healthcare":             "醫療保健業",
	"Consumer Cyclical":      "非必需消費品業",
	"Communication Services": "通訊服務業",
	"Energy":                 "能源業",
	"Industrials":            "工業類股",
	"Utilities":              "公用事業",
	"Real Estate":            "房地產業",
	"Materials":              "原物料業",
	"Consumer Defensive":     "必需消費品業",
	model.UnknownField:       "未知",
}

// IndustryZH returns the Chinese name of an industry, "未知" when unmapped.
func IndustryZH(en string) string {
	if zh, ok := industryZH[en]; ok {
		return zh
	}
	return industryZH[model.UnknownField]
}
