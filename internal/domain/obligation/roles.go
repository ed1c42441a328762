package obligation

// ─────────────────────────────────────────────────────────────────────────────
// PropBank role bindings
// ─────────────────────────────────────────────────────────────────────────────

// RoleBinding pairs the predicate an obligation uses to reach a sub-entity
// with the RDF class that sub-entity is typed as.  Names are relative to the
// reporting-obligation namespace.
type RoleBinding struct {
	Predicate string
	Class     string
}

// roleBindings maps PropBank argument labels onto vocabulary terms.  The
// modifier entries follow the PropBank annotation guidelines; several are
// carried for completeness even though the extractor rarely emits them.
var roleBindings = map[string]RoleBinding{
	"ARG0": {"hasReporter", "Reporter"},
	"ARG1": {"hasReport", "Report"},
	"ARG2": {"hasRegulatoryBody", "RegulatoryBody"},
	"ARG3": {"hasDetails", "Details"},
	"V":    {"hasVerb", "Verb"},

	"ARGM-TMP": {"hasPropTmp", "PropTmp"},
	"ARGM-LOC": {"hasPropLoc", "PropLoc"},
	"ARGM-CAU": {"hasPropCau", "PropCau"},
	"ARGM-EXT": {"hasPropExt", "PropExt"},
	"ARGM-MNR": {"hasPropMnr", "PropMnr"},
	"ARGM-PNC": {"hasPropPnc", "PropPnc"},
	"ARGM-ADV": {"hasPropAdv", "PropAdv"},
	"ARGM-DIR": {"hasPropDir", "PropDir"},
	"ARGM-NEG": {"hasPropNeg", "PropNeg"},
	"ARGM-MOD": {"hasPropMod", "PropMod"},
	"ARGM-DIS": {"hasPropDis", "PropDis"},
	"ARGM-PRP": {"hasPropPrp", "PropPrp"},
	"ARGM-PRD": {"hasPropPrd", "PropPrd"},
	"ARGM-COM": {"hasPropCom", "PropCom"},
	"ARGM-GOL": {"hasPropGol", "PropGol"},
	"ARGM-REC": {"hasPropRec", "PropRec"},
	"ARGM-DSP": {"hasPropDsp", "PropDsp"},
	"ARGM-LVB": {"hasPropLVB", "PropLvb"},
}

// GenericBinding is the fallback pairing for argument labels the vocabulary
// does not know.  The class is the plain SKOS concept rather than a namespace
// subclass.
var GenericBinding = RoleBinding{Predicate: "hasEntity", Class: SKOSConcept}

// BindingForRole resolves a PropBank label to its vocabulary binding.  Unknown
// labels resolve to GenericBinding with ok == false so callers can log the
// degradation; an unknown role is never an error.
func BindingForRole(role string) (binding RoleBinding, ok bool) {
	if b, found := roleBindings[role]; found {
		return b, true
	}
	return GenericBinding, false
}

// KnownRoles returns every PropBank label the vocabulary binds, in no
// particular order.
func KnownRoles() []string {
	roles := make([]string, 0, len(roleBindings))
	for r := range roleBindings {
		roles = append(roles, r)
	}
	return roles
}

// EntityPredicates returns the full URIs of every has-X predicate in the
// vocabulary, including the generic hasEntity.  The graph store uses this set
// to find sub-entities reachable from an obligation node.
func EntityPredicates(v Vocabulary) []string {
	preds := make([]string, 0, len(roleBindings)+1)
	for _, b := range roleBindings {
		preds = append(preds, v.Term(b.Predicate))
	}
	preds = append(preds, v.Term(GenericBinding.Predicate))
	return preds
}

//Personal.AI order the ending
