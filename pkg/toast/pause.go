package toast

// pauseSet holds the ids whose countdown is suspended.
type pauseSet map[string]struct{}

// add reports whether id was newly added.
func (p pauseSet) add(id string) bool {
	if _, ok := p[id]; ok {
		return false
	}
	p[id] = struct{}{}
	return true
}

// remove reports whether id was present.
func (p pauseSet) remove(id string) bool {
	if _, ok := p[id]; !ok {
		return false
	}
	delete(p, id)
	return true
}

func (p pauseSet) has(id string) bool {
	_, ok := p[id]
	return ok
}
