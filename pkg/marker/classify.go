package marker

import (
	"regexp"
	"strings"
)

// Category is one of the eight medical categories a marker is filed under.
type Category string

const (
	Hematology          Category = "hematology"
	ClinicalChemistry   Category = "clinical_chemistry"
	Hormones            Category = "hormones"
	ClinicalImmunology  Category = "clinical_immunology"
	MetalsTraceElements Category = "metals_trace_elements"
	Micronutrients      Category = "micronutrients"
	FattyAcids          Category = "fatty_acids"
	Quotients           Category = "quotients"
)

// categoryRule pairs a category with its keyword list and pattern. Keywords
// match as substrings of the folded name; the pattern runs against the raw
// name. Rules are evaluated in declaration order and the first hit wins, so
// the slice order is a contract: ambiguous names (short element symbols in
// the metals pattern match nearly everything) resolve to the earliest
// declared category.
type categoryRule struct {
	category Category
	keywords []string
	pattern  *regexp.Regexp
}

var categoryRules = []categoryRule{
	{
		category: Hematology,
		keywords: []string{
			"leukoz", "erythroz", "hämoglobin", "hämatokrit", "mcv",
			"mch", "mchc", "thromboz", "rdw", "neutrophil", "lymphoz",
			"monoz", "eosinophil", "basophil", "hematocrit", "platelets",
		},
		pattern: regexp.MustCompile(`(?i)(leuko|erythro|hb|hct|mcv|mch|mchc|plt|rdw)`),
	},
	{
		category: ClinicalChemistry,
		keywords: []string{
			"ferritin", "gesamteiweiß", "calcium", "protein", "albumin",
			"glucose", "creatinine", "urea", "bilirubin", "ast", "alt",
		},
		pattern: regexp.MustCompile(`(?i)(ferritin|protein|calcium|glucose|creatinin|urea)`),
	},
	{
		category: Hormones,
		keywords: []string{
			"t3", "t4", "tsh", "freies", "hormone", "cortisol",
			"testosterone", "estradiol", "insulin", "dhea",
		},
		pattern: regexp.MustCompile(`(?i)(t3|t4|tsh|ft3|ft4|cortisol|testosteron)`),
	},
	{
		category: ClinicalImmunology,
		keywords: []string{
			"crp", "immunoglobulin", "igg", "iga", "igm", "ige",
			"interleukin", "complement", "antibody",
		},
		pattern: regexp.MustCompile(`(?i)(crp|ig[agme]|interleukin|complement)`),
	},
	{
		category: MetalsTraceElements,
		keywords: []string{
			"magnesium", "selen", "zink", "kupfer", "chrom", "blei",
			"cadmium", "nickel", "quecksilber", "kalium", "natrium",
			"phosphor", "mangan", "molybdän", "iron", "copper", "zinc",
		},
		pattern: regexp.MustCompile(`(?i)(mg|se|zn|cu|cr|pb|cd|ni|hg|k|na|p|mn|mo|fe)`),
	},
	{
		category: Micronutrients,
		keywords: []string{
			"vitamin", "folsäure", "cobalamin", "holotrans", "biotin",
			"niacin", "riboflavin", "thiamin", "folic acid", "b12",
		},
		pattern: regexp.MustCompile(`(?i)(vitamin|vit|folsäure|folate|b12|cobalamin)`),
	},
	{
		category: FattyAcids,
		keywords: []string{
			"linol", "omega", "epa", "dha", "arachidon", "fettsäuren",
			"palmitin", "stearin", "fatty acid", "lipid",
		},
		pattern: regexp.MustCompile(`(?i)(omega|epa|dha|linol|arachidon|fatty|lipid)`),
	},
	{
		category: Quotients,
		keywords: []string{
			"index", "verhältnis", "quotient", "ratio", "aa/epa",
			"omega-6/omega-3", "ldl/hdl",
		},
		pattern: regexp.MustCompile(`(?i)(index|ratio|quotient|verhältnis|/)`),
	},
}

// Classify assigns a test name to a category. Classification is total and
// deterministic: every name maps to exactly one category, defaulting to
// clinical chemistry when no rule hits.
func Classify(testName string) Category {
	folded := FoldName(testName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.category
			}
		}
		if rule.pattern.MatchString(testName) {
			return rule.category
		}
	}
	return ClinicalChemistry
}

// FattyAcidClass is the subcategory axis for fatty-acid markers. The values
// double as the JSON keys of the fatty-acid panel.
type FattyAcidClass string

const (
	Omega3          FattyAcidClass = "omega_3_fatty_acids"
	Omega6          FattyAcidClass = "omega_6_fatty_acids"
	Monounsaturated FattyAcidClass = "monounsaturated_fatty_acids"
	TransFats       FattyAcidClass = "trans_fatty_acids"
	Saturated       FattyAcidClass = "saturated_fatty_acids"
)

type fattyAcidRule struct {
	class    FattyAcidClass
	keywords []string
}

var fattyAcidRules = []fattyAcidRule{
	{Omega3, []string{"alpha-linolen", "epa", "dha", "docosapentaen-n3", "omega-3", "omega 3"}},
	{Omega6, []string{"gamma-linolen", "dihomo", "linol", "arachidon", "docosatetraen", "docosapentaen-n6", "omega-6", "omega 6"}},
	{Monounsaturated, []string{"olein", "palmitolein", "gondo", "nervon", "einfach ungesättigt"}},
	{TransFats, []string{"trans", "elaidin"}},
	{Saturated, []string{"myristin", "palmitin", "stearin", "arachin", "behen", "lignocerin", "gesättigt", "saturated"}},
}

// ClassifyFattyAcid assigns a fatty-acid marker to its subclass, defaulting
// to omega-3 when no subtype keyword matches.
func ClassifyFattyAcid(testName string) FattyAcidClass {
	folded := FoldName(testName)
	for _, rule := range fattyAcidRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.class
			}
		}
	}
	return Omega3
}
