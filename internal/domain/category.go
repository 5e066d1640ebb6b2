package domain

// CreatorCategory describe una familia de categorías de creator para el cliente.
type CreatorCategory struct {
	Key                  string  `json:"key"`
	Label                string  `json:"label"`
	Description          string  `json:"description"`
	RiskLevel            string  `json:"risk_level"`
	VerificationRequired bool    `json:"verification_required"`
	Badge                *string `json:"badge"`
}

type CreatorCatalog struct {
	Categories          []CreatorCategory `json:"categories"`
	SensitiveCategories []string          `json:"sensitive_categories"`
	ContentPolicies     map[string]string `json:"content_policies"`
}

func badge(s string) *string { return &s }

// NewCreatorCatalog arma el catálogo público; sensitive son las categorías
// concretas que disparan la revisión manual.
func NewCreatorCatalog(sensitive []string) CreatorCatalog {
	if sensitive == nil {
		sensitive = []string{}
	}
	return CreatorCatalog{
		Categories: []CreatorCategory{
			{
				Key:         "standard_creator",
				Label:       "Creator standard",
				Description: "Intrattenimento, lifestyle, gaming, fitness non medico, vlog e divulgazione leggera. Contenuti per adulti e promozione OnlyFans non sono ammessi.",
				RiskLevel:   "low",
			},
			{
				Key:         "science_educational",
				Label:       "Scienza divulgativa",
				Description: "Divulgazione culturale e scientifica non applicativa: storia, scienze umane, fisica, biologia non clinica, chimica teorica, matematica, astronomia.",
				RiskLevel:   "medium",
			},
			{
				Key:                  "professional_sensitive",
				Label:                "Professioni sensibili",
				Description:          "Contenuti ad alto impatto sulla vita delle persone: medicina, psicologia, economia e finanza, temi giuridici, ingegneria, chimica applicata, nutrizione clinica e sicurezza.",
				RiskLevel:            "high",
				VerificationRequired: true,
				Badge:                badge("verified_professional"),
			},
			{
				Key:         "social_opinion",
				Label:       "Impatto sociale / Opinione",
				Description: "Opinioni e analisi su politica, società, geopolitica, attualità e media. Non include consulenza professionale.",
				RiskLevel:   "medium",
			},
			{
				Key:                  "political_in_office",
				Label:                "Personalità politica in carica",
				Description:          "Persone che ricoprono incarichi politici istituzionali (locali, nazionali o europei). Trasparenza obbligatoria.",
				RiskLevel:            "high",
				VerificationRequired: true,
				Badge:                badge("political_in_office"),
			},
			{
				Key:         "public_figure",
				Label:       "Personaggio pubblico",
				Description: "Celebrità o figure pubbliche con notorietà esterna alla piattaforma. Il badge è facoltativo e non comporta privilegi.",
				RiskLevel:   "medium",
				Badge:       badge("public_figure"),
			},
		},
		SensitiveCategories: sensitive,
		ContentPolicies: map[string]string{
			"anti_copy_paste": "Il copia-incolla integrale di contenuti dal web non è consentito. Sono ammessi solo contenuti originali, rielaborazioni personali o citazioni brevi accompagnate da commento.",
		},
	}
}
