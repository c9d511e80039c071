package utils

type Metric struct {
	CalendarFetch      chan float64
	DiscordSendMessage chan float64
}

func NewMetric() *Metric {
	return &Metric{
		CalendarFetch:      make(chan float64),
		DiscordSendMessage: make(chan float64),
	}
}
