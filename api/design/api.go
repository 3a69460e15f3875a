package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("robolab", func() {
	Title("RoboLab Intake API")
	Description("Public intake for parent and partner inquiries with a token-protected admin surface")
	Version("1.0.0")
	Server("api", func() {
		Host("localhost", func() {
			URI("http://localhost:8000")
		})
	})
})

// Common error types
var Unauthorized = Type("Unauthorized", func() {
	Description("Missing or wrong admin token")
	Attribute("ok", Boolean, "Always false", func() {
		Example(false)
	})
	Attribute("error", String, "Error code", func() {
		Example("unauthorized")
	})
	Required("ok", "error")
})

var NotFound = Type("NotFound", func() {
	Description("Inquiry not found")
	Attribute("ok", Boolean, "Always false")
	Attribute("error", String, "Error code", func() {
		Example("not_found")
	})
	Required("ok", "error")
})

var InvalidStatus = Type("InvalidStatus", func() {
	Description("Status outside the allowed set")
	Attribute("ok", Boolean, "Always false")
	Attribute("error", String, "Error code", func() {
		Example("invalid_status")
	})
	Required("ok", "error")
})

var ValidationFailed = Type("ValidationFailed", func() {
	Description("Submission rejected by validation")
	Attribute("ok", Boolean, "Always false")
	Attribute("errors", ArrayOf(String), "One message per failed field", func() {
		Example([]string{`"email" is missing from body`})
	})
	Required("ok", "errors")
})

var ServerError = Type("ServerError", func() {
	Description("Storage or lookup failure; detail is only logged")
	Attribute("ok", Boolean, "Always false")
	Attribute("error", String, "Error code", func() {
		Example("server_error")
	})
	Required("ok", "error")
})

var AdminToken = APIKeySecurity("admin_token", func() {
	Description("Shared admin token sent in the X-Admin-Token header")
})

// Health check
var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/api/health")
			Response(StatusOK)
		})
	})
})

var HealthResult = ResultType("HealthResult", func() {
	Attribute("ok", Boolean, "Always true", func() {
		Example(true)
	})
	Attribute("service", String, "Service name", func() {
		Example("RoboLab Intake API")
	})
	Required("ok", "service")
})

// Public intake
var _ = Service("inquiries", func() {
	Description("Parent and partner inquiry intake")
	Error("validation_failed", ValidationFailed)
	Error("server_error", ServerError)

	Method("submit", func() {
		Description("Validate and store an inquiry. The kind is decided by the payload shape: an orgType key or source \"partners_page\" marks a partner inquiry.")
		Payload(SubmitPayload)
		Result(SubmitResult)
		Error("validation_failed")
		Error("server_error")
		HTTP(func() {
			POST("/api/inquiries")
			Response(StatusCreated)
			Response("validation_failed", StatusBadRequest)
			Response("server_error", StatusInternalServerError)
		})
	})

	Method("age_groups", func() {
		Description("Active age groups in display order")
		Result(LookupList)
		HTTP(func() {
			GET("/api/inquiries/lookups/age-groups")
			Response(StatusOK)
		})
	})

	Method("org_types", func() {
		Description("Active organization types in display order")
		Result(LookupList)
		HTTP(func() {
			GET("/api/inquiries/lookups/org-types")
			Response(StatusOK)
		})
	})
})

var SubmitPayload = Type("SubmitPayload", func() {
	Attribute("firstName", String, "First name", func() {
		MaxLength(80)
		Example("John")
	})
	Attribute("lastName", String, "Last name", func() {
		MaxLength(80)
		Example("Smith")
	})
	Attribute("email", String, "Email address", func() {
		Format(FormatEmail)
		MaxLength(254)
		Example("john@example.com")
	})
	Attribute("phone", String, "Phone number (optional)", func() {
		MaxLength(40)
	})
	Attribute("message", String, "Free-text message (optional)", func() {
		MaxLength(2000)
	})
	Attribute("consent", Boolean, "Contact consent; must be true")
	Attribute("source", String, "Originating form", func() {
		MaxLength(80)
		Example("website")
	})
	Attribute("pagePath", String, "Page the form was submitted from", func() {
		MaxLength(300)
		Example("/summer-camp")
	})
	// parent fields
	Attribute("numKids", Int, "Number of children", func() {
		Minimum(1)
		Maximum(12)
		Default(1)
	})
	Attribute("ageGroups", ArrayOf(String, func() {
		Enum("6-9", "9-13", "13-16", "16+")
	}), "Age-group codes; the first is primary", func() {
		MinLength(1)
		MaxLength(4)
	})
	Attribute("newsletterOptIn", Boolean, "Subscribe to the newsletter", func() {
		Default(false)
	})
	// partner fields
	Attribute("orgName", String, "Organization name", func() {
		MaxLength(160)
	})
	Attribute("orgType", String, "Organization type code", func() {
		Enum("government", "nonprofit", "school", "library", "corporate_sponsor", "faith_community", "other")
	})
	Attribute("orgTypeOther", String, "Required when orgType is other", func() {
		MaxLength(120)
	})
	Required("firstName", "lastName", "email", "consent")
})

var SubmitResult = ResultType("SubmitResult", func() {
	Attribute("ok", Boolean, "Always true")
	Attribute("id", String, "Inquiry ID", func() {
		Format(FormatUUID)
	})
	Required("ok", "id")
})

var Lookup = Type("Lookup", func() {
	Attribute("code", String, "Stable code", func() {
		Example("6-9")
	})
	Attribute("label", String, "Display label", func() {
		Example("Ages 6-9")
	})
	Required("code", "label")
})

var LookupList = ResultType("LookupList", func() {
	Attribute("ok", Boolean, "Always true")
	Attribute("data", ArrayOf(Lookup))
	Required("ok", "data")
})

// Admin surface
var _ = Service("admin", func() {
	Description("Inquiry review for staff")
	Security(AdminToken)
	Error("unauthorized", Unauthorized)
	Error("not_found", NotFound)
	Error("invalid_status", InvalidStatus)

	Method("list", func() {
		Description("Newest inquiries first, at most 200 rows")
		Payload(ListInquiriesPayload)
		Result(InquiryList)
		Error("unauthorized")
		HTTP(func() {
			GET("/api/admin/inquiries")
			GET("/api/admin")
			Header("token:X-Admin-Token")
			Param("status")
			Param("q")
			Response(StatusOK)
			Response("unauthorized", StatusUnauthorized)
		})
	})

	Method("get", func() {
		Description("One inquiry with its parent or partner detail")
		Payload(GetInquiryPayload)
		Result(InquiryDetailResult)
		Error("unauthorized")
		Error("not_found")
		HTTP(func() {
			GET("/api/admin/inquiries/{id}")
			Header("token:X-Admin-Token")
			Response(StatusOK)
			Response("unauthorized", StatusUnauthorized)
			Response("not_found", StatusNotFound)
		})
	})

	Method("set_status", func() {
		Description("Move an inquiry to another workflow status")
		Payload(SetStatusPayload)
		Result(OKResult)
		Error("unauthorized")
		Error("not_found")
		Error("invalid_status")
		HTTP(func() {
			PATCH("/api/admin/inquiries/{id}/status")
			Header("token:X-Admin-Token")
			Response(StatusOK)
			Response("unauthorized", StatusUnauthorized)
			Response("not_found", StatusNotFound)
			Response("invalid_status", StatusBadRequest)
		})
	})
})

var ListInquiriesPayload = Type("ListInquiriesPayload", func() {
	APIKey("admin_token", "token", String, "Admin token")
	Attribute("status", String, "Exact status filter")
	Attribute("q", String, "Case-insensitive substring of name or email")
})

var GetInquiryPayload = Type("GetInquiryPayload", func() {
	APIKey("admin_token", "token", String, "Admin token")
	Attribute("id", String, "Inquiry ID", func() {
		Format(FormatUUID)
	})
	Required("id")
})

var SetStatusPayload = Type("SetStatusPayload", func() {
	APIKey("admin_token", "token", String, "Admin token")
	Attribute("id", String, "Inquiry ID", func() {
		Format(FormatUUID)
	})
	Attribute("status", String, "New status", func() {
		Enum("new", "read", "contacted", "archived")
	})
	Required("id", "status")
})

var OKResult = ResultType("OKResult", func() {
	Attribute("ok", Boolean, "Always true")
	Required("ok")
})

var InquiryResult = ResultType("InquiryResult", func() {
	Attribute("id", String, "Inquiry ID")
	Attribute("kind", String, "parent or partner")
	Attribute("first_name", String)
	Attribute("last_name", String)
	Attribute("full_name", String)
	Attribute("email", String)
	Attribute("phone", String)
	Attribute("message", String)
	Attribute("newsletter_opt_in", Boolean)
	Attribute("consent", Boolean)
	Attribute("consent_at", String, func() {
		Format(FormatDateTime)
	})
	Attribute("source", String)
	Attribute("page_path", String)
	Attribute("status", String, "new, read, contacted or archived")
	Attribute("spam_flag", Boolean)
	Attribute("created_at", String, func() {
		Format(FormatDateTime)
	})
	Attribute("updated_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "kind", "full_name", "email", "status", "created_at")
})

var InquiryList = ResultType("InquiryList", func() {
	Attribute("ok", Boolean, "Always true")
	Attribute("data", ArrayOf(InquiryResult))
	Required("ok", "data")
})

var ParentDetail = Type("ParentDetail", func() {
	Attribute("num_kids", Int)
	Attribute("primary_age_group", String)
	Attribute("age_groups", ArrayOf(Lookup))
})

var PartnerDetail = Type("PartnerDetail", func() {
	Attribute("org_name", String)
	Attribute("org_type", Lookup)
	Attribute("org_type_other", String)
})

var InquiryDetailResult = ResultType("InquiryDetailResult", func() {
	Attribute("ok", Boolean, "Always true")
	Attribute("data", func() {
		Extend(InquiryResult)
		Attribute("parent", ParentDetail)
		Attribute("partner", PartnerDetail)
	})
	Required("ok", "data")
})
