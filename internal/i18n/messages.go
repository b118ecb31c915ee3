package i18n

func catalog() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:     "Invalid request",
			ErrKeyInvalidRequestBody: "Invalid request body",
			ErrKeyInternalError:      "An unexpected error occurred",
			ErrKeyUnauthorized:       "Unauthorized",
			ErrKeyInvalidCredentials: "Invalid email or password",
			ErrKeyAPIKeyRequired:     "API key is required",
			ErrKeyInvalidAPIKey:      "Invalid API key",
			ErrKeyForbidden:          "Forbidden",
			ErrKeyNotFound:           "Not found",
			ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
			ErrKeyConflict:           "Conflict",
			ErrKeyInvalidToken:       "Invalid or expired token",
			ErrKeyTokenRequired:      "Authentication token is required",
			ErrKeyTimeout:            "The request took too long to complete",
			ErrKeyServiceUnavailable: "Service temporarily unavailable",
			ErrKeyUserExists:         "A user with this email already exists",
			ErrKeyPlanNotFound:       "Saved plan not found",
			ErrKeyPlanNameRequired:   "plan_name: must not be empty",
			ErrKeyUnknownFood:        "food_prices: unknown food item",
			ErrKeyInvalidPrice:       "food_prices: prices must be finite numbers >= 0",
			ErrKeyInvalidBudget:      "weekly_budget: must be a finite number",
			ErrKeyInvalidFamily:      "family_members: invalid family composition",
			ErrKeyInvalidProfile:     "profile: values out of range",
			ErrKeyInvalidRoles:       "roles: must include \"user\" and only known roles",
			ErrKeySelfUpdate:         "Administrators cannot remove their own admin role or deactivate themselves",
		},
		"hi": {
			ErrKeyInvalidRequest:     "अमान्य अनुरोध",
			ErrKeyInvalidRequestBody: "अनुरोध का मुख्य भाग अमान्य है",
			ErrKeyInternalError:      "एक अप्रत्याशित त्रुटि हुई",
			ErrKeyUnauthorized:       "अनधिकृत",
			ErrKeyInvalidCredentials: "ईमेल या पासवर्ड गलत है",
			ErrKeyAPIKeyRequired:     "API कुंजी आवश्यक है",
			ErrKeyInvalidAPIKey:      "अमान्य API कुंजी",
			ErrKeyForbidden:          "निषिद्ध",
			ErrKeyNotFound:           "नहीं मिला",
			ErrKeyRateLimitExceeded:  "बहुत अधिक अनुरोध, कृपया बाद में पुनः प्रयास करें",
			ErrKeyConflict:           "विरोध",
			ErrKeyInvalidToken:       "टोकन अमान्य है या समाप्त हो गया है",
			ErrKeyTokenRequired:      "प्रमाणीकरण टोकन आवश्यक है",
			ErrKeyTimeout:            "अनुरोध पूरा होने में बहुत समय लगा",
			ErrKeyServiceUnavailable: "सेवा अस्थायी रूप से उपलब्ध नहीं है",
			ErrKeyUserExists:         "इस ईमेल से उपयोगकर्ता पहले से मौजूद है",
			ErrKeyPlanNotFound:       "सहेजी गई योजना नहीं मिली",
			ErrKeyPlanNameRequired:   "plan_name: खाली नहीं होना चाहिए",
			ErrKeyUnknownFood:        "food_prices: अज्ञात खाद्य पदार्थ",
			ErrKeyInvalidPrice:       "food_prices: कीमतें 0 या उससे अधिक होनी चाहिए",
			ErrKeyInvalidBudget:      "weekly_budget: एक सीमित संख्या होनी चाहिए",
			ErrKeyInvalidFamily:      "family_members: परिवार की संरचना अमान्य है",
			ErrKeyInvalidProfile:     "profile: मान सीमा से बाहर हैं",
			ErrKeyInvalidRoles:       "roles: \"user\" शामिल होना चाहिए और केवल ज्ञात भूमिकाएँ",
			ErrKeySelfUpdate:         "व्यवस्थापक अपनी admin भूमिका हटा या स्वयं को निष्क्रिय नहीं कर सकते",
		},
	}
}
