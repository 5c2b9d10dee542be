package command

// queue is the implementation of the Queue interface.
type queue struct {
	cmds []Command
}

// Queue collects the commands components emit during a frame until the engine hands them to
// the renderer. It is not safe for concurrent use.
type Queue interface {
	// Push appends commands in order.
	//
	// Parameters:
	//   - cmds: the commands to append
	Push(cmds ...Command)

	// Drain returns every queued command and empties the queue.
	//
	// Returns:
	//   - []Command: the commands in push order
	Drain() []Command

	// Len returns the number of queued commands.
	Len() int
}

var _ Queue = &queue{}

// NewQueue creates an empty Queue.
//
// Returns:
//   - Queue: a new queue
func NewQueue() Queue {
	return &queue{}
}

func (q *queue) Push(cmds ...Command) {
	q.cmds = append(q.cmds, cmds...)
}

func (q *queue) Drain() []Command {
	out := q.cmds
	q.cmds = nil
	return out
}

func (q *queue) Len() int {
	return len(q.cmds)
}
