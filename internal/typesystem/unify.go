package typesystem

// SubUnify checks that sub can be used where sup is expected without
// binding anything. Variables are compatible with everything inside
// their bounds; nominal subtyping is left to the caller's oracle.
func SubUnify(sub, sup Type) error {
	return subUnify(sub, sup, nil)
}

// SubUnifyTP is SubUnify for type-level terms.
func SubUnifyTP(sub, sup TyParam) error {
	return subUnifyTP(sub, sup, nil)
}

// typePair represents a pair of types being compared for co-induction
type typePair struct {
	sub Type
	sup Type
}

func subUnify(sub, sup Type, visited []typePair) error {
	sub, sup = Deref(sub), Deref(sup)
	for _, p := range visited {
		if EqType(p.sub, sub) && EqType(p.sup, sup) {
			return nil
		}
	}
	visited = append(visited, typePair{sub: sub, sup: sup})

	if EqType(sub, sup) {
		return nil
	}
	switch s := sub.(type) {
	case NeverType:
		return nil
	case FailureType:
		return nil
	case TyVar:
		return nil
	case Poly:
		if p, ok := sup.(Poly); ok {
			if p.Name != s.Name || len(p.Params) != len(s.Params) {
				return NewUnifyError(sub, sup)
			}
			for i := range s.Params {
				if err := subUnifyTP(s.Params[i], p.Params[i], visited); err != nil {
					return err
				}
			}
			return nil
		}
	case Refinement:
		return subUnify(s.Base, sup, visited)
	}
	switch p := sup.(type) {
	case TyVar:
		return nil
	case Or:
		if subUnify(sub, p.L, visited) == nil || subUnify(sub, p.R, visited) == nil {
			return nil
		}
		return NewUnifyError(sub, sup)
	case Mono:
		if p.Name == Obj.Name {
			return nil
		}
		if _, ok := sub.(Mono); ok {
			// Distinct nominal names need the context's subtype oracle.
			return nil
		}
	}
	return NewUnifyError(sub, sup)
}

func subUnifyTP(sub, sup TyParam, visited []typePair) error {
	sub, sup = DerefTP(sub), DerefTP(sup)
	if EqTP(sub, sup) {
		return nil
	}
	switch s := sub.(type) {
	case TPVar, TPErased, TPFailure:
		return nil
	case TPType:
		switch p := sup.(type) {
		case TPType:
			return subUnify(s.T, p.T, visited)
		case TPValue:
			if tv, ok := p.V.(TypeVal); ok {
				return subUnify(s.T, tv.Obj.Typ(), visited)
			}
		}
	case TPValue:
		if tv, ok := s.V.(TypeVal); ok {
			return subUnifyTP(TPType{T: tv.Obj.Typ()}, sup, visited)
		}
	}
	switch sup.(type) {
	case TPVar, TPErased:
		return nil
	}
	return NewUnifyError(sub, sup)
}
