package pipeline

import "eventclean/internal/event"

// multiWriter fans one cleaned chunk out to several sinks in order.
type multiWriter struct {
	sinks []ChunkWriter
}

// MultiWriter returns a ChunkWriter that writes each chunk to every sink,
// stopping at the first error. With one sink it is returned unchanged.
func MultiWriter(sinks ...ChunkWriter) ChunkWriter {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &multiWriter{sinks: sinks}
}

func (m *multiWriter) WriteChunk(events []event.Event) error {
	for _, s := range m.sinks {
		if err := s.WriteChunk(events); err != nil {
			return err
		}
	}
	return nil
}
