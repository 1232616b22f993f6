package game

type Judgement uint8

const (
	Perfect Judgement = iota
	Good
	Bad
	Miss
)

var judgementNames = [...]string{"Perfect", "Good", "Bad", "Miss"}

func (j Judgement) String() string {
	if int(j) < len(judgementNames) {
		return judgementNames[j]
	}
	return "None"
}

// Counts tallies Perfect, Good, Bad and Miss judgements, indexed by Judgement.
type Counts [4]uint32

func (c Counts) Sum() uint32 {
	return c[Perfect] + c[Good] + c[Bad] + c[Miss]
}
