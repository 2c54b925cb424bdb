package matcher

// Eligible reports whether a and b may be paired. Both preferences must
// accept the other side; a one-way match is not enough.
func Eligible(a, b Entity) bool {
	if a.ID == b.ID {
		return false
	}
	return accepts(a.Target, b.Gender) && accepts(b.Target, a.Gender)
}

func accepts(target, gender Gender) bool {
	return target == GenderAny || target == gender
}
