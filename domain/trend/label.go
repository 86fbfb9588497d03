package trend

import "time"

const LabelLayout = "2 January"

func Label(day time.Time) string {
	return day.Format(LabelLayout)
}

// Series splits a filled series into its labels, data points and total.
func Series(filled []DailyCount) (labels []string, data []float64, total float64) {
	labels = make([]string, len(filled))
	data = make([]float64, len(filled))
	for i, dc := range filled {
		labels[i] = Label(dc.Day)
		data[i] = dc.Count
		total += dc.Count
	}
	return labels, data, total
}
