package projection

type Event string

const (
	Hit     Event = "Hit"
	Miss    Event = "Miss"
	Rebuild Event = "Rebuild"
	Evict   Event = "Evict"
	Failure Event = "Failure"
)
