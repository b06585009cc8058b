// Package logfields defines the structured logging keys shared by every
// package that logs through logrus.
package logfields

const (
	RouteTable = "table"
	CIDR       = "cidr"
	Interface  = "eni"
	Host       = "host"
	Address    = "address"
	Project    = "project"
	Component  = "component"
	Config     = "config"
	Region     = "region"
	Account    = "account"
	Count      = "count"
	ErrorCode  = "code"
	ARN        = "arn"
	VPC        = "vpc"
	Subnet     = "subnet"
	File       = "file"
	Status     = "status"
	Origin     = "origin"
	State      = "state"
)
