package config

// de43Regexp splits the card acceptor name/location field into its
// backslash separated parts. Overridable via field_processor_config.
const de43Regexp = `(?P<DE43_NAME>.+?) *\\(?P<DE43_ADDRESS>.+?) *\\(?P<DE43_SUBURB>.+?) *\\` +
	`(?P<DE43_POSTCODE>.{10})(?P<DE43_STATE>.{3})(?P<DE43_COUNTRY>\S{3})$`

// Default returns the compiled-in scheme configuration. The field table
// covers the data elements that appear on clearing files; unused indices
// are intentionally absent so that unexpected bitmap bits fail loudly.
func Default() *Config {
	cfg := &Config{
		MaxVBSRecordLength: defaultMax,
		BitConfig: map[string]*Field{
			"1":  {Name: "Bitmap secondary", Type: TypeFixed, Length: 8, DataType: DataB},
			"2":  {Name: "PAN", Type: TypeLLVar, DataType: DataN},
			"3":  {Name: "Processing code", Type: TypeFixed, Length: 6, DataType: DataN},
			"4":  {Name: "Amount transaction", Type: TypeFixed, Length: 12, DataType: DataN},
			"5":  {Name: "Amount, Reconciliation", Type: TypeFixed, Length: 12, DataType: DataN},
			"6":  {Name: "Amount, Cardholder billing", Type: TypeFixed, Length: 12, DataType: DataN},
			"9":  {Name: "Conversion rate, Reconciliation", Type: TypeFixed, Length: 8, DataType: DataN},
			"10": {Name: "Conversion rate, Cardholder billing", Type: TypeFixed, Length: 8, DataType: DataN},
			"12": {Name: "Date/Time local transaction", Type: TypeFixed, Length: 12, DateFormat: "%y%m%d%H%M%S"},
			"14": {Name: "Expiration date", Type: TypeFixed, Length: 4, DataType: DataN},
			"22": {Name: "Point of service data code", Type: TypeFixed, Length: 12},
			"23": {Name: "Card sequence number", Type: TypeFixed, Length: 3, DataType: DataN},
			"24": {Name: "Function code", Type: TypeFixed, Length: 3, DataType: DataN},
			"25": {Name: "Message reason code", Type: TypeFixed, Length: 4, DataType: DataN},
			"26": {Name: "Card acceptor business code", Type: TypeFixed, Length: 4, DataType: DataN},
			"30": {Name: "Amounts, original", Type: TypeFixed, Length: 24, DataType: DataN},
			"31": {Name: "Acquirer reference data", Type: TypeLLVar, Length: 23},
			"32": {Name: "Acquiring institution ID code", Type: TypeLLVar, DataType: DataN},
			"33": {Name: "Forwarding institution ID code", Type: TypeLLVar, DataType: DataN},
			"37": {Name: "Retrieval reference number", Type: TypeFixed, Length: 12},
			"38": {Name: "Approval code", Type: TypeFixed, Length: 6},
			"40": {Name: "Service code", Type: TypeFixed, Length: 3, DataType: DataN},
			"41": {Name: "Card acceptor terminal ID", Type: TypeFixed, Length: 8},
			"42": {Name: "Card acceptor Id", Type: TypeFixed, Length: 15},
			"43": {Name: "Card acceptor name/location", Type: TypeLLVar, Processor: ProcDE43, ProcessorConfig: de43Regexp},
			"48": {Name: "Additional data", Type: TypeLLLVar, Processor: ProcPDS},
			"49": {Name: "Currency code, Transaction", Type: TypeFixed, Length: 3, DataType: DataN},
			"50": {Name: "Currency code, Reconciliation", Type: TypeFixed, Length: 3, DataType: DataN},
			"51": {Name: "Currency code, Cardholder billing", Type: TypeFixed, Length: 3, DataType: DataN},
			"54": {Name: "Amounts, additional", Type: TypeLLLVar},
			"55": {Name: "ICC system related data", Type: TypeLLLVar, Length: 255, DataType: DataB, Processor: ProcICC},
			"62": {Name: "Additional data 2", Type: TypeLLLVar, Processor: ProcPDS},
			"63": {Name: "Transaction lifecycle Id", Type: TypeLLLVar, Length: 16},
			"71": {Name: "Message number", Type: TypeFixed, Length: 8, DataType: DataN},
			"72": {Name: "Data record", Type: TypeLLLVar},
			"73": {Name: "Date, Action", Type: TypeFixed, Length: 6, DateFormat: "%y%m%d"},
			"93": {Name: "Transaction destination institution ID", Type: TypeLLVar, DataType: DataN},
			"94": {Name: "Transaction originator institution ID", Type: TypeLLVar, DataType: DataN},
			"95": {Name: "Card issuer reference data", Type: TypeLLVar, Length: 10},
			"100": {Name: "Receiving institution ID", Type: TypeLLVar, Length: 11, DataType: DataN},
			"111": {Name: "Amount, currency conversion assignment", Type: TypeLLLVar},
			"123": {Name: "Additional data 3", Type: TypeLLLVar, Processor: ProcPDS},
			"124": {Name: "Additional data 4", Type: TypeLLLVar, Processor: ProcPDS},
			"125": {Name: "Additional data 5", Type: TypeLLLVar, Processor: ProcPDS},
			"127": {Name: "Network data", Type: TypeLLLVar},
		},
		OutputDataElements: []string{
			"MTI", "DE2", "DE3", "DE4", "DE12", "DE14", "DE22", "DE23", "DE24", "DE25",
			"DE26", "DE30", "DE31", "DE33", "DE37", "DE38", "DE40", "DE41", "DE42",
			"DE48", "DE49", "DE50", "DE63", "DE71", "DE73", "DE93", "DE94", "DE95",
			"DE100", "PDS0023", "PDS0052", "PDS0122", "PDS0148", "PDS0158", "PDS0165",
			"DE43_NAME", "DE43_SUBURB", "DE43_POSTCODE", "ICC_DATA",
		},
		ParameterTables: map[string]map[string]ParamColumn{
			"IP0006T1": {
				"card_program_id":                        {Start: 19, End: 22},
				"data_element_id":                        {Start: 22, End: 25},
				"data_element_name":                      {Start: 25, End: 82},
				"data_element_format":                    {Start: 82, End: 85},
				"data_element_minimum_length":            {Start: 85, End: 88},
				"data_element_mastercard_maximum_length": {Start: 88, End: 91},
				"data_element_iso_maximum_length":        {Start: 91, End: 94},
				"de_lll_size":                            {Start: 94, End: 95},
				"data_element_subfields":                 {Start: 95, End: 97},
			},
			"IP0040T1": {
				"issuer_account_range_low":                      {Start: 19, End: 38},
				"gcms_product_id":                               {Start: 38, End: 41},
				"issuer_account_range_high":                     {Start: 41, End: 60},
				"card_program_identifier":                       {Start: 60, End: 63},
				"issuer_card_program_identifier_priority_code":  {Start: 63, End: 65},
				"member_id":                                     {Start: 65, End: 76},
				"product_type_id":                               {Start: 76, End: 77},
				"endpoint":                                      {Start: 77, End: 84},
				"card_country_alpha":                            {Start: 84, End: 87},
				"card_country_numeric":                          {Start: 87, End: 90},
				"region":                                        {Start: 90, End: 91},
				"product_class":                                 {Start: 91, End: 94},
				"transaction_routing_indicator":                 {Start: 94, End: 95},
				"first_presentment_reassignment_switch":         {Start: 95, End: 96},
				"product_reassignment_switch":                   {Start: 96, End: 97},
				"pwcb_opt_in_switch":                            {Start: 97, End: 98},
				"licenced_product_id":                           {Start: 98, End: 101},
				"mapping_service_ind":                           {Start: 101, End: 102},
				"alm_participation_ind":                         {Start: 102, End: 103},
				"alm_activation_date":                           {Start: 103, End: 109, Type: "datetime", Pivot: 50},
				"cardholder_billing_currency_default":           {Start: 109, End: 112},
				"cardholder_billing_currency_exponent_default":  {Start: 112, End: 113},
				"cardholder_bill_primary_currency":              {Start: 113, End: 141},
				"chip_to_magnetic_conversion_service_indicator": {Start: 141, End: 142},
				"floor_expiration_date":                         {Start: 142, End: 148, Type: "datetime", Pivot: 50},
				"co_brand_participation_switch":                 {Start: 148, End: 149},
				"spend_control_switch":                          {Start: 149, End: 150},
				"merchant_cleansing_service_participation":      {Start: 150, End: 153},
				"merchant_cleansing_activation_date":            {Start: 153, End: 159, Type: "datetime", Pivot: 50},
				"paypass_enabled_indicator":                     {Start: 159, End: 160},
				"regulated_rate_type_indicator":                 {Start: 160, End: 161},
				"psn_route_indicator":                           {Start: 161, End: 162},
				"cash_back_without_purchase_indicator":          {Start: 162, End: 163},
				"repower_reload_participation_indicator":        {Start: 164, End: 165},
				"moneysend_indicator":                           {Start: 165, End: 166},
				"durban_regulated_rate_indicator":               {Start: 166, End: 167},
				"cash_access_only_participating_indicator":      {Start: 167, End: 168},
				"authentication_indicator":                      {Start: 168, End: 169},
			},
			"IP0075T1": {
				"card_acceptor_business_code_mcc":                         {Start: 19, End: 24},
				"card_acceptor_business_cab_program":                      {Start: 24, End: 28},
				"card_acceptor_business_cab_program_life_cycle_indicator": {Start: 28, End: 29},
				"card_acceptor_business_cab_type":                         {Start: 29, End: 30},
				"card_acceptor_business_cab_life_cycle_indicator":         {Start: 30, End: 31},
			},
			"IP0095T1": {
				"card_program_identifier":           {Start: 19, End: 22},
				"business_service_arrangement_type": {Start: 22, End: 23},
				"business_service_id_code":          {Start: 23, End: 29},
				"interchange_rate_designator_ird":   {Start: 29, End: 31},
				"card_acceptor_business_cab_program": {Start: 31, End: 35},
				"life_cycle_indicator":               {Start: 35, End: 36},
			},
		},
	}
	if err := cfg.finalise(); err != nil {
		panic(err)
	}
	return cfg
}
