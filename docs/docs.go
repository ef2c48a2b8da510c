// Package docs holds the OpenAPI document served under /swagger. Regenerate it with
// `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/loan-config": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "Get loan configuration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Lending terms",
						"schema": {
							"$ref": "#/definitions/dto.LoanConfigResponse"
						}
					}
				}
			}
		},
		"/api/loans": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "List loans",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Loans",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.LoanResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "query",
						"name": "status",
						"description": "Loan status",
						"required": false
					},
					{
						"type": "string",
						"in": "query",
						"name": "userId",
						"description": "Owner id",
						"required": false
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"Loans"
				],
				"summary": "Create a new loan",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Loan successfully created",
						"schema": {
							"$ref": "#/definitions/dto.CreateLoanResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateLoanRequest"
						}
					},
					{
						"type": "string",
						"in": "header",
						"name": "User-Id",
						"description": "Loan owner when userId is absent"
					},
					{
						"type": "string",
						"in": "header",
						"name": "Idempotency-Key",
						"description": "Replays the first response for a repeated key"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/active": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "List active loans",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Active loans",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.LoanResponse"
							}
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/{loanID}": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "Retrieve loan details",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Loan details",
						"schema": {
							"$ref": "#/definitions/dto.LoanResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "loanID",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/{loanID}/status": {
			"patch": {
				"tags": [
					"Loans"
				],
				"summary": "Update loan status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Updated loan",
						"schema": {
							"$ref": "#/definitions/dto.LoanResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "loanID",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateStatusRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/{loanID}/schedule": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "Get repayment schedule",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Monthly schedule",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.ScheduleEntryResponse"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "loanID",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/{loanID}/statement": {
			"get": {
				"tags": [
					"Loans"
				],
				"summary": "Get loan statement",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Statement",
						"schema": {
							"$ref": "#/definitions/dto.StatementResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "loanID",
						"required": true
					},
					{
						"type": "string",
						"in": "query",
						"name": "startDate",
						"description": "YYYY-MM-DD or RFC3339",
						"required": true
					},
					{
						"type": "string",
						"in": "query",
						"name": "endDate",
						"description": "YYYY-MM-DD or RFC3339",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/loans/{loanID}/payments": {
			"post": {
				"tags": [
					"Loans"
				],
				"summary": "Make a loan payment",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Payment applied",
						"schema": {
							"$ref": "#/definitions/dto.MakePaymentResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "loanID",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.MakePaymentRequest"
						}
					},
					{
						"type": "string",
						"in": "header",
						"name": "Idempotency-Key",
						"description": "Replays the first response for a repeated key"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/transactions": {
			"get": {
				"tags": [
					"Transactions"
				],
				"summary": "List transactions",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Transactions",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.TransactionResponse"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "query",
						"name": "type",
						"description": "Transaction type",
						"required": false
					},
					{
						"type": "string",
						"in": "query",
						"name": "startDate",
						"description": "YYYY-MM-DD or RFC3339",
						"required": false
					},
					{
						"type": "string",
						"in": "query",
						"name": "endDate",
						"description": "YYYY-MM-DD or RFC3339",
						"required": false
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/transactions/{transactionID}": {
			"get": {
				"tags": [
					"Transactions"
				],
				"summary": "Retrieve a transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Transaction",
						"schema": {
							"$ref": "#/definitions/dto.TransactionResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "transactionID",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/account/balance": {
			"get": {
				"tags": [
					"Account"
				],
				"summary": "Get account balance",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Balance",
						"schema": {
							"$ref": "#/definitions/dto.BalanceResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/account/debits": {
			"post": {
				"tags": [
					"Account"
				],
				"summary": "Debit the account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Recorded debit",
						"schema": {
							"$ref": "#/definitions/dto.TransactionResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.DebitRequest"
						}
					},
					{
						"type": "string",
						"in": "header",
						"name": "Idempotency-Key",
						"description": "Replays the first response for a repeated key"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/calculate-loan": {
			"post": {
				"tags": [
					"Calculator"
				],
				"summary": "Calculate loan repayments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Repayment quote",
						"schema": {
							"$ref": "#/definitions/dto.QuoteResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CalculateLoanRequest"
						}
					}
				]
			}
		},
		"/api/loan-eligibility": {
			"post": {
				"tags": [
					"Calculator"
				],
				"summary": "Assess loan eligibility",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Assessment",
						"schema": {
							"$ref": "#/definitions/dto.EligibilityResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": false,
						"schema": {
							"$ref": "#/definitions/dto.EligibilityRequest"
						}
					}
				]
			}
		},
		"/api/customers": {
			"get": {
				"tags": [
					"Customers"
				],
				"summary": "List customers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Customers sorted by email",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.CustomerResponse"
							}
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/customers/{email}": {
			"get": {
				"tags": [
					"Customers"
				],
				"summary": "Get a customer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Customer",
						"schema": {
							"$ref": "#/definitions/dto.CustomerResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "email",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/token": {
			"post": {
				"tags": [
					"Authentication"
				],
				"summary": "Generate a JWT bearer token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Token successfully generated",
						"schema": {
							"$ref": "#/definitions/dto.TokenResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.TokenRequest"
						}
					}
				]
			}
		}
	},
	"definitions": {
		"ErrorDetail": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"field": {
					"type": "string"
				}
			}
		},
		"ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"$ref": "#/definitions/dto.ErrorDetail"
				}
			}
		},
		"TokenRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				}
			}
		},
		"TokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"expiresAt": {
					"type": "string"
				}
			}
		},
		"LoanConfigResponse": {
			"type": "object",
			"properties": {
				"minLoanAmount": {
					"type": "string"
				},
				"defaultInterestRate": {
					"type": "number"
				},
				"availableDurations": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"loanPurposes": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"currency": {
					"type": "string"
				}
			}
		},
		"CreateLoanRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"interestRate": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"duration": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"purpose": {
					"type": "string"
				},
				"userId": {
					"type": "string"
				}
			}
		},
		"MakePaymentRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"method": {
					"type": "string"
				}
			}
		},
		"UpdateStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			}
		},
		"PaymentResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"loanId": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"method": {
					"type": "string"
				},
				"date": {
					"type": "string"
				}
			}
		},
		"LoanResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"userId": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"interestRate": {
					"type": "number"
				},
				"duration": {
					"type": "integer"
				},
				"purpose": {
					"type": "string"
				},
				"monthlyPayment": {
					"type": "string"
				},
				"totalRepayment": {
					"type": "string"
				},
				"remainingBalance": {
					"type": "string"
				},
				"totalPaid": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"payments": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.PaymentResponse"
					}
				},
				"creationDate": {
					"type": "string"
				},
				"dueDate": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"CreateLoanResponse": {
			"type": "object",
			"properties": {
				"loan": {
					"$ref": "#/definitions/dto.LoanResponse"
				},
				"transactionId": {
					"type": "string"
				}
			}
		},
		"MakePaymentResponse": {
			"type": "object",
			"properties": {
				"payment": {
					"$ref": "#/definitions/dto.PaymentResponse"
				},
				"loan": {
					"$ref": "#/definitions/dto.LoanResponse"
				},
				"transactionId": {
					"type": "string"
				}
			}
		},
		"ScheduleEntryResponse": {
			"type": "object",
			"properties": {
				"month": {
					"type": "integer"
				},
				"dueDate": {
					"type": "string"
				},
				"payment": {
					"type": "string"
				},
				"principal": {
					"type": "string"
				},
				"interest": {
					"type": "string"
				},
				"balance": {
					"type": "string"
				}
			}
		},
		"StatementResponse": {
			"type": "object",
			"properties": {
				"loanId": {
					"type": "string"
				},
				"startDate": {
					"type": "string"
				},
				"endDate": {
					"type": "string"
				},
				"payments": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.PaymentResponse"
					}
				},
				"totalPaid": {
					"type": "string"
				},
				"openingBalance": {
					"type": "string"
				},
				"closingBalance": {
					"type": "string"
				},
				"status": {
					"type": "string"
				}
			}
		},
		"CalculateLoanRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"interestRate": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"duration": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				}
			}
		},
		"QuoteResponse": {
			"type": "object",
			"properties": {
				"loanAmount": {
					"type": "string"
				},
				"interestRate": {
					"type": "number"
				},
				"durationMonths": {
					"type": "integer"
				},
				"monthlyPayment": {
					"type": "string"
				},
				"totalRepayment": {
					"type": "string"
				},
				"totalInterest": {
					"type": "string"
				}
			}
		},
		"EligibilityRequest": {
			"type": "object",
			"properties": {
				"income": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"creditScore": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"employmentStatus": {
					"type": "string"
				},
				"existingDebts": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"accountAgeDays": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				}
			}
		},
		"EligibilityResponse": {
			"type": "object",
			"properties": {
				"isEligible": {
					"type": "boolean"
				},
				"maxLoanAmount": {
					"type": "string"
				},
				"recommendedInterestRate": {
					"type": "number"
				},
				"recommendedDuration": {
					"type": "integer"
				},
				"reason": {
					"type": "string"
				}
			}
		},
		"TransactionResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"referenceId": {
					"type": "string"
				},
				"date": {
					"type": "string"
				}
			}
		},
		"BalanceResponse": {
			"type": "object",
			"properties": {
				"balance": {
					"type": "string"
				},
				"currency": {
					"type": "string"
				}
			}
		},
		"DebitRequest": {
			"type": "object",
			"properties": {
				"type": {
					"type": "string"
				},
				"amount": {
					"type": "string",
					"description": "number or numeric string, thousands separators allowed"
				},
				"description": {
					"type": "string"
				},
				"referenceId": {
					"type": "string"
				}
			}
		},
		"CustomerResponse": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"activeLoans": {
					"type": "integer"
				},
				"totalBorrowed": {
					"type": "string"
				},
				"outstanding": {
					"type": "string"
				},
				"loanIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Loan Ledger API",
	Description:	  "Loan ledger: loans, payments, transactions and the derived account balance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
