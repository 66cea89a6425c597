package logging

import "time"

// StageTimer logs how long one pipeline stage took.
type StageTimer struct {
	logger Logger
	stage  string
	start  time.Time
	fields []Field
}

// StartStage begins timing stage.
func StartStage(logger Logger, stage string, fields ...Field) *StageTimer {
	return &StageTimer{logger: logger, stage: stage, start: time.Now(), fields: fields}
}

// Elapsed returns the time since the stage started.
func (t *StageTimer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Done logs stage completion at info level with any extra result fields.
func (t *StageTimer) Done(extra ...Field) time.Duration {
	elapsed := t.Elapsed()
	fields := make([]Field, 0, len(t.fields)+len(extra)+2)
	fields = append(fields, Stage(t.stage), Latency(elapsed))
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	t.logger.Info(t.stage+" complete", fields...)
	return elapsed
}

// Fail logs the stage as failed at error level.
func (t *StageTimer) Fail(err error) time.Duration {
	elapsed := t.Elapsed()
	fields := make([]Field, 0, len(t.fields)+3)
	fields = append(fields, Stage(t.stage), Latency(elapsed), Error(err))
	fields = append(fields, t.fields...)
	t.logger.Error(t.stage+" failed", fields...)
	return elapsed
}
