package pcg

// DefaultMappings returns the built-in PCG prefix table. Prefix overlaps
// are intentional: Classify resolves them longest-prefix-first (411 beats
// 41, 4091 beats 409).
func DefaultMappings() []Mapping {
	return []Mapping{
		// Classe 1 — capitaux.
		{Prefix: "10", Category: CategoryEquity, Label: "Capital et réserves", BalanceSection: "capital"},
		{Prefix: "106", Category: CategoryEquity, Label: "Réserves", BalanceSection: "reserves"},
		{Prefix: "11", Category: CategoryEquity, Label: "Report à nouveau", BalanceSection: "report_a_nouveau"},
		{Prefix: "12", Category: CategoryEquity, Label: "Résultat de l'exercice", BalanceSection: "resultat_exercice"},
		{Prefix: "15", Category: CategoryProvisions, Label: "Provisions pour risques et charges", BalanceSection: "provisions_risques"},
		{Prefix: "16", Category: CategoryFinancialDebt, Label: "Emprunts et dettes assimilées", BalanceSection: "emprunts_etablissements"},
		{Prefix: "161", Category: CategoryFinancialDebt, Label: "Emprunts obligataires", BalanceSection: "emprunts_obligataires"},
		{Prefix: "163", Category: CategoryFinancialDebt, Label: "Autres emprunts obligataires", BalanceSection: "emprunts_obligataires"},
		{Prefix: "17", Category: CategoryFinancialDebt, Label: "Dettes rattachées à des participations", BalanceSection: "emprunts_etablissements"},

		// Classe 2 — immobilisations.
		{Prefix: "20", Category: CategoryIntangibles, Label: "Immobilisations incorporelles", BalanceSection: "immo_incorporelles"},
		{Prefix: "21", Category: CategoryTangibles, Label: "Immobilisations corporelles", BalanceSection: "immo_corporelles"},
		{Prefix: "22", Category: CategoryTangibles, Label: "Immobilisations mises en concession", BalanceSection: "immo_corporelles"},
		{Prefix: "23", Category: CategoryTangibles, Label: "Immobilisations en cours", BalanceSection: "immo_corporelles"},
		{Prefix: "26", Category: CategoryFinancialAssets, Label: "Participations", BalanceSection: "immo_financieres"},
		{Prefix: "27", Category: CategoryFinancialAssets, Label: "Autres immobilisations financières", BalanceSection: "immo_financieres"},

		// Classe 3 — stocks.
		{Prefix: "31", Category: CategoryInventory, Label: "Matières premières", BalanceSection: "stock_matieres"},
		{Prefix: "32", Category: CategoryInventory, Label: "Autres approvisionnements", BalanceSection: "stock_matieres"},
		{Prefix: "33", Category: CategoryInventory, Label: "En-cours de production de biens", BalanceSection: "stock_en_cours"},
		{Prefix: "34", Category: CategoryInventory, Label: "En-cours de production de services", BalanceSection: "stock_en_cours"},
		{Prefix: "35", Category: CategoryInventory, Label: "Stocks de produits", BalanceSection: "stock_produits"},
		{Prefix: "37", Category: CategoryInventory, Label: "Stocks de marchandises", BalanceSection: "stock_marchandises"},

		// Classe 4 — tiers.
		{Prefix: "40", Category: CategoryPayables, Label: "Fournisseurs et comptes rattachés", BalanceSection: "fournisseurs"},
		{Prefix: "409", Category: CategoryOtherReceivables, Label: "Fournisseurs débiteurs", BalanceSection: "autres_creances"},
		{Prefix: "4091", Category: CategoryAdvancesPaid, Label: "Avances et acomptes versés", BalanceSection: "avances_versees"},
		{Prefix: "41", Category: CategoryReceivables, Label: "Clients et comptes rattachés", BalanceSection: "clients"},
		{Prefix: "419", Category: CategoryOtherPayables, Label: "Clients créditeurs, avances reçues", BalanceSection: "autres_dettes"},
		{Prefix: "42", Category: CategoryTaxSocialDebt, Label: "Personnel et comptes rattachés", BalanceSection: "dettes_fiscales_sociales"},
		{Prefix: "425", Category: CategoryOtherReceivables, Label: "Avances au personnel", BalanceSection: "autres_creances"},
		{Prefix: "43", Category: CategoryTaxSocialDebt, Label: "Sécurité sociale et organismes", BalanceSection: "dettes_fiscales_sociales"},
		{Prefix: "44", Category: CategoryTaxSocialDebt, Label: "État et collectivités", BalanceSection: "dettes_fiscales_sociales"},
		{Prefix: "441", Category: CategoryOtherReceivables, Label: "État - subventions à recevoir", BalanceSection: "autres_creances"},
		{Prefix: "4456", Category: CategoryOtherReceivables, Label: "TVA déductible", BalanceSection: "autres_creances"},
		{Prefix: "4458", Category: CategoryOtherReceivables, Label: "TVA à régulariser", BalanceSection: "autres_creances"},
		{Prefix: "45", Category: CategoryOtherReceivables, Label: "Groupe et associés", BalanceSection: "autres_creances"},
		{Prefix: "455", Category: CategoryFinancialDebt, Label: "Comptes courants d'associés", BalanceSection: "comptes_courants_associes"},
		{Prefix: "457", Category: CategoryOtherPayables, Label: "Dividendes à payer", BalanceSection: "autres_dettes"},
		{Prefix: "46", Category: CategoryOtherReceivables, Label: "Débiteurs et créditeurs divers", BalanceSection: "autres_creances"},
		{Prefix: "47", Category: CategoryOtherReceivables, Label: "Comptes transitoires", BalanceSection: "autres_creances"},
		{Prefix: "48", Category: CategoryOtherPayables, Label: "Comptes de régularisation", BalanceSection: "autres_dettes"},
		{Prefix: "486", Category: CategoryPrepaidExpenses, Label: "Charges constatées d'avance", BalanceSection: "charges_constatees_avance"},
		{Prefix: "487", Category: CategoryDeferredIncome, Label: "Produits constatés d'avance", BalanceSection: "produits_constates_avance"},
		{Prefix: "49", Category: CategoryOtherReceivables, Label: "Dépréciations des comptes de tiers", BalanceSection: "autres_creances"},

		// Classe 5 — financier.
		{Prefix: "50", Category: CategorySecurities, Label: "Valeurs mobilières de placement", BalanceSection: "vmp"},
		{Prefix: "51", Category: CategoryCash, Label: "Banques", BalanceSection: "disponibilites"},
		{Prefix: "519", Category: CategoryBankOverdraft, Label: "Concours bancaires courants", BalanceSection: "tresorerie_passif"},
		{Prefix: "53", Category: CategoryCash, Label: "Caisse", BalanceSection: "disponibilites"},

		// Classe 6 — charges.
		{Prefix: "60", Category: CategoryPurchases, Label: "Achats", PnLSection: "achats"},
		{Prefix: "61", Category: CategoryExternalCharges, Label: "Services extérieurs", PnLSection: "autres_achats"},
		{Prefix: "611", Category: CategorySubcontracting, Label: "Sous-traitance générale", PnLSection: "sous_traitance"},
		{Prefix: "62", Category: CategoryExternalCharges, Label: "Autres services extérieurs", PnLSection: "autres_achats"},
		{Prefix: "63", Category: CategoryTaxes, Label: "Impôts, taxes et versements assimilés", PnLSection: "impots_taxes"},
		{Prefix: "64", Category: CategoryPersonnel, Label: "Charges de personnel", PnLSection: "personnel"},
		{Prefix: "65", Category: CategoryOtherCharges, Label: "Autres charges de gestion courante", PnLSection: "autres_charges"},
		{Prefix: "66", Category: CategoryFinancialExpense, Label: "Charges financières", PnLSection: "charges_financieres"},
		{Prefix: "67", Category: CategoryExceptExpense, Label: "Charges exceptionnelles", PnLSection: "charges_exceptionnelles"},
		{Prefix: "68", Category: CategoryDepreciation, Label: "Dotations aux amortissements et provisions", PnLSection: "dotations"},
		{Prefix: "69", Category: CategoryIncomeTax, Label: "Participation et impôts sur les bénéfices", PnLSection: "impot_societes"},
		{Prefix: "691", Category: CategoryProfitSharing, Label: "Participation des salariés", PnLSection: "participation"},

		// Classe 7 — produits.
		{Prefix: "70", Category: CategoryRevenue, Label: "Ventes et prestations", PnLSection: "chiffre_affaires"},
		{Prefix: "71", Category: CategoryProductionStock, Label: "Production stockée", PnLSection: "variation_en_cours"},
		{Prefix: "72", Category: CategoryProductionStock, Label: "Production immobilisée", PnLSection: "variation_en_cours"},
		{Prefix: "75", Category: CategoryOtherCharges, Label: "Autres produits de gestion courante", PnLSection: "autres_charges"},
		{Prefix: "76", Category: CategoryFinancialIncome, Label: "Produits financiers", PnLSection: "produits_financiers"},
		{Prefix: "77", Category: CategoryExceptIncome, Label: "Produits exceptionnels", PnLSection: "produits_exceptionnels"},
		{Prefix: "78", Category: CategoryDepreciation, Label: "Reprises sur amortissements et provisions", PnLSection: "dotations"},
	}
}
