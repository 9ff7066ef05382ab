package service

// Stage is a step of the query pipeline. Stages only move forward.
type Stage int

const (
	StageLoaded Stage = iota
	StageTokenized
	StageDocumentsRanked
	StageSentencePoolBuilt
	StageSentencesRanked
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLoaded:
		return "loaded"
	case StageTokenized:
		return "tokenized"
	case StageDocumentsRanked:
		return "documents_ranked"
	case StageSentencePoolBuilt:
		return "sentence_pool_built"
	case StageSentencesRanked:
		return "sentences_ranked"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}
