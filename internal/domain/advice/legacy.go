package advice

import (
	"fmt"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

// LegacyAdvise is the earlier single-threshold rule set. Each rule is
// independently additive and a single stable-weather line stands in when
// none fire.
//
// Deprecated: superseded by Advise; kept for comparison and not routed.
func LegacyAdvise(r forecast.Reading) Result {
	notes := make([]string, 0, 6)
	if r.Temperature >= 33 {
		notes = append(notes, "🔥 高溫注意避曬、加強通風。")
	}
	if r.Temperature <= 15 {
		notes = append(notes, "🥶 溫度偏低，應減少澆水頻率。")
	}
	if r.Humidity < 50 {
		notes = append(notes, "💧 空氣乾燥，建議早晚噴霧保持濕度。")
	}
	if r.UVIndex >= 7 {
		notes = append(notes, "🌞 紫外線強，建議遮陽避免灼傷。")
	}
	if r.WindSpeed >= 25 {
		notes = append(notes, "💨 強風注意固定與防乾風。")
	}
	if r.PrecipProbability >= 60 {
		notes = append(notes, "🌧️ 降雨高，減少澆水並檢查排水孔。")
	}
	if len(notes) == 0 {
		notes = append(notes, "✅ 天氣穩定，維持日常管理即可。")
	}

	header := fmt.Sprintf(
		"🌤️【今日天氣】\n🌡️ %.1f°C　💧%.0f%%　☀️UV %.1f\n💨風速 %.1f km/h　🌧️降雨 %.0f%%",
		r.Temperature, r.Humidity, r.UVIndex, r.WindSpeed, r.PrecipProbability,
	)

	return Result{Header: header, BodyLines: notes}
}
