package logic

// ButtonReporter turns button levels into one-shot press events.
//
// A press is reported once and latched until the button is seen released.
// There is no debounce beyond the latch: a contact that bounces across polls
// can report again.
type ButtonReporter struct {
	sentLeft  bool
	sentRight bool
}

// Process takes the pressed state of both buttons for one poll and returns the
// presses to report, left before right.
func (r *ButtonReporter) Process(left, right bool) []Button {
	var out []Button
	if edge(&r.sentLeft, left) {
		out = append(out, ButtonLeft)
	}
	if edge(&r.sentRight, right) {
		out = append(out, ButtonRight)
	}
	return out
}

// edge updates a latch and reports whether a new press should be emitted.
func edge(sent *bool, pressed bool) bool {
	if !pressed {
		*sent = false
		return false
	}
	if *sent {
		return false
	}
	*sent = true
	return true
}
