package gotreesitter

// compareVersions orders two versions the way the recovery cost model
// breaks ties between ambiguous parses: a halted version always loses,
// then lower accumulated error cost wins, then higher dynamic
// precedence wins, then the version is considered equivalent. It is
// total and antisymmetric over any finite set of versions, which is
// what select_tree's callers need to converge on a single winner.
func compareVersions(s *Stack, a, b Version) int {
	aHalted, bHalted := s.IsHalted(a), s.IsHalted(b)
	if aHalted != bHalted {
		if aHalted {
			return 1
		}
		return -1
	}

	aCost, bCost := s.ErrorCost(a), s.ErrorCost(b)
	if aCost != bCost {
		if aCost < bCost {
			return -1
		}
		return 1
	}

	aPrec, bPrec := s.DynamicPrecedence(a), s.DynamicPrecedence(b)
	if aPrec != bPrec {
		if aPrec > bPrec {
			return -1
		}
		return 1
	}
	return 0
}

// betterVersion returns whichever of a, b compareVersions prefers.
func betterVersion(s *Stack, a, b Version) Version {
	if compareVersions(s, a, b) <= 0 {
		return a
	}
	return b
}

// selectTree picks the winning root among a set of accepted versions'
// trees, using the same ordering as compareVersions: lowest error cost,
// then highest dynamic precedence.
func selectTree(s *Stack, candidates []Version) Version {
	best := candidates[0]
	for _, v := range candidates[1:] {
		best = betterVersion(s, best, v)
	}
	return best
}

// betterVersionExists reports whether some other live, mergeable version
// already covers v's (state, position, external-scanner-state) at least
// as well as v does, letting a call site drop v the moment it falls
// behind instead of waiting for the next condenseStack sweep. This is
// the opportunistic counterpart condenseStack's periodic pass already
// runs unconditionally over every pair.
func (p *Parser) betterVersionExists(stack *Stack, v Version) bool {
	for i := 0; i < stack.VersionCount(); i++ {
		other := Version(i)
		if other == v || stack.IsHalted(other) || stack.IsPaused(other) {
			continue
		}
		if !stack.CanMerge(v, other) {
			continue
		}
		if betterVersion(stack, v, other) == other {
			return true
		}
	}
	return false
}

// condenseStack sweeps every pair of versions, merging or dropping one
// side whenever compareVersions and CanMerge agree it's redundant, and
// removing halted versions outright. It keeps the live version count at
// or below tunables.MaxVersionCount, matching parser__condense_stack.
func condenseStack(s *Stack, tunables Tunables) {
	for i := 0; i < s.VersionCount(); i++ {
		if s.IsHalted(Version(i)) {
			for _, n := range s.PopAll(Version(i)) {
				n.Release()
			}
			s.RemoveVersion(Version(i))
			i--
			continue
		}
	}

	for i := 0; i < s.VersionCount(); i++ {
		for j := i + 1; j < s.VersionCount(); j++ {
			vi, vj := Version(i), Version(j)
			if s.Merge(vi, vj) {
				j--
				continue
			}
		}
	}

	for s.VersionCount() > tunables.MaxVersionCount {
		worst := Version(0)
		for i := 1; i < s.VersionCount(); i++ {
			if compareVersions(s, Version(i), worst) > 0 {
				worst = Version(i)
			}
		}
		for _, n := range s.PopAll(worst) {
			n.Release()
		}
		s.RemoveVersion(worst)
	}
}
