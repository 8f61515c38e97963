package service

import (
	"sajilokaam-api/internal/entity"
)

func mapJob(j *entity.Job) *entity.JobOutputModel {
	return &entity.JobOutputModel{
		Id:          j.Id.String(),
		ClientId:    j.ClientId.String(),
		Title:       j.Title,
		Description: j.Description,
		Budget:      j.Budget,
		BudgetType:  string(j.BudgetType),
		Deadline:    j.Deadline,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
	}
}

func mapJobs(jobs []entity.Job) []entity.JobOutputModel {
	s := make([]entity.JobOutputModel, 0)
	for _, j := range jobs {
		s = append(s, *mapJob(&j))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:                      b.Id.String(),
		JobId:                   b.JobId.String(),
		FreelancerId:            b.FreelancerId.String(),
		Amount:                  b.Amount,
		Proposal:                b.Proposal,
		EstimatedCompletionDate: b.EstimatedCompletionDate,
		Status:                  string(b.Status),
		CreatedAt:               b.CreatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, b := range bids {
		s = append(s, *mapBid(&b))
	}

	return s
}

func mapProject(p *entity.Project) *entity.ProjectOutputModel {
	return &entity.ProjectOutputModel{
		Id:           p.Id.String(),
		JobId:        p.JobId.String(),
		ClientId:     p.ClientId.String(),
		FreelancerId: p.FreelancerId.String(),
		Title:        p.Title,
		Description:  p.Description,
		Budget:       p.Budget,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func mapProjects(projects []entity.Project) []entity.ProjectOutputModel {
	s := make([]entity.ProjectOutputModel, 0)
	for _, p := range projects {
		s = append(s, *mapProject(&p))
	}

	return s
}

func mapInvoice(i *entity.Invoice) *entity.InvoiceOutputModel {
	return &entity.InvoiceOutputModel{
		Id:            i.Id.String(),
		ProjectId:     i.ProjectId.String(),
		InvoiceNumber: i.InvoiceNumber,
		TotalAmount:   i.TotalAmount,
		Status:        string(i.Status),
		DueDate:       i.DueDate,
		PaidAt:        i.PaidAt,
		CreatedAt:     i.CreatedAt,
	}
}

func mapInvoices(invoices []entity.Invoice) []entity.InvoiceOutputModel {
	s := make([]entity.InvoiceOutputModel, 0)
	for _, i := range invoices {
		s = append(s, *mapInvoice(&i))
	}

	return s
}

func mapPayment(p *entity.Payment) *entity.PaymentOutputModel {
	return &entity.PaymentOutputModel{
		Id:                   p.Id.String(),
		InvoiceId:            p.InvoiceId.String(),
		Amount:               p.Amount,
		PaymentMethod:        string(p.Method),
		Status:               string(p.Status),
		GatewayTransactionId: p.GatewayTransactionId,
		CreatedAt:            p.CreatedAt,
	}
}
