package recognizer

import "context"

// DefaultTable builds a Table with every built-in endgame handler registered, and attempts
// to load the KPK/KPPK/KBPK/KBNK bitbases from bbDir (a directory of "<stem>_wtm.bb" /
// "<stem>_btm.bb" files, see pkg/bitbase). A missing bitbase directory is not an error:
// each handler falls back to its hand-coded heuristic (KPK) or simply declines to evaluate
// (KPPK/KBPK/KBNK), per spec's bitbase error-handling policy.
func DefaultTable(ctx context.Context, bbDir string) *Table {
	t := NewTable()
	registerKPK(t)
	registerFourPiece(t)
	registerHandCoded(t)
	if bbDir != "" {
		t.LoadBitbases(ctx, bbDir)
	}
	return t
}
