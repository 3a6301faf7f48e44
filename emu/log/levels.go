package log

// Level mirrors logrus severity ordering: lower is more severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// Contexter adds ambient fields (current frame, PC, ...) to every log
// entry emitted while it is registered.
type Contexter interface {
	AddLogContext(e *EntryZ)
}

var contexts []Contexter

func AddContext(c Contexter) {
	contexts = append(contexts, c)
}

func RemoveContext(c Contexter) {
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
