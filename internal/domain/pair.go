package domain

// TranslationPair is a matched English / Rutooro sentence.
type TranslationPair struct {
	Source string
	Target string
}

// RawRecord is one loosely structured element of an input dataset file.
type RawRecord map[string]any

// Record is the on-disk form of a translation pair.
type Record struct {
	Translation RecordText `json:"translation"`
}

// RecordText holds both sides of a Record.
type RecordText struct {
	En  string `json:"en"`
	Ttj string `json:"ttj"`
}

// Record converts the pair to its serialized form.
func (p TranslationPair) Record() Record {
	return Record{Translation: RecordText{En: p.Source, Ttj: p.Target}}
}

// SplitName names one partition of a dataset.
type SplitName string

const (
	SplitTrain SplitName = "train"
	SplitDev   SplitName = "dev"
	SplitTest  SplitName = "test"
)

// SplitNames lists the partitions in write order.
var SplitNames = []SplitName{SplitTrain, SplitDev, SplitTest}
