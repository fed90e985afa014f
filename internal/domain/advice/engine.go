package advice

import (
	"fmt"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

// Advise maps a weather reading to a juniper care recommendation. It is a
// pure function: identical readings always yield identical output.
//
// The watering note is an if/else-if chain so at most one of the rain-skip,
// hot-dry and routine lines fires; every later check is independently
// additive.
func Advise(r forecast.Reading) Result {
	rh := r.DaytimeAvgHumidity
	notes := make([]string, 0, 7)

	switch {
	case r.PrecipProbability >= 60 || r.PrecipSum >= 5:
		notes = append(notes, "🌧 降雨高：**今天先別預澆**，雨後再看表土。")
	case r.Temperature >= 32 && rh < 60 && r.UVIndex >= 8:
		notes = append(notes, "🥵 炎熱乾：中午乾很快，表土 1–2cm 乾就澆透；傍晚再檢。")
	default:
		notes = append(notes, "💧 例行：表土 1–2cm 乾再澆，一次澆透。")
	}

	if r.UVIndex >= 9 {
		notes = append(notes, "🕶 UV 高：中午遮陰 20–30%。")
	} else {
		notes = append(notes, "☀️ 確保日照 6h+。")
	}

	if r.WindSpeed >= 12 {
		notes = append(notes, "💨 風大：移避風處、檢查蟠線與盆線固定。")
	}
	if r.Temperature >= 28 && rh <= 55 {
		notes = append(notes, "🕷 乾熱：紅蜘蛛風險，背面噴霧洗塵、注意退綠點。")
	}
	if rh >= 80 {
		notes = append(notes, "🦠 濕悶：減少噴霧、加強通風，避免悶根。")
	}

	notes = append(notes,
		"🧵 蟠線：每週拍照檢查勒痕；膨皮立即鬆線重繞。",
		"✂️ 今日僅清枯黃針；避免摘軟梢。",
	)

	header := fmt.Sprintf(
		"🪴 系魚川真柏｜今日照護建議\n🌡 %.1f°C｜UV %.1f｜降雨 %.0f%%｜雨量 %.1fmm｜陣風 %.1fm/s｜濕度約 %.0f%%",
		r.Temperature, r.UVIndex, r.PrecipProbability, r.PrecipSum, r.WindSpeed, rh,
	)

	return Result{Header: header, BodyLines: notes}
}
