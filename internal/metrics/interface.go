package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncGamesCreated()
	IncGamesCompleted()
	IncRoundsProcessed()
	IncRoundsRejected(reason string)
	AddUnknownPlayersSkipped(n int)
	ObserveRoundDuration(seconds float64)
	SetStartupTime(seconds float64)
}
