package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SampleEmployees returns a fresh copy of the 20 built-in sample records.
func SampleEmployees() []Employee {
	return []Employee{
		sample(1, "John", "Doe", "Information Technology", "Senior Developer", 95000, "2020-03-15", StatusActive, "San Francisco, CA", "Sarah Chen", 4.5,
			"JavaScript", "React", "Node.js", "TypeScript"),
		sample(2, "Jane", "Smith", "Human Resources", "HR Manager", 75000, "2019-01-20", StatusActive, "New York, NY", "Michael Johnson", 4.8,
			"Leadership", "Communication", "Project Management"),
		sample(3, "Michael", "Johnson", "Finance", "Financial Analyst", 68000, "2021-06-10", StatusActive, "Chicago, IL", "Lisa Anderson", 4.2,
			"Financial Analysis", "Data Analysis", "Excel"),
		sample(4, "Emily", "Brown", "Marketing", "Marketing Coordinator", 55000, "2022-02-28", StatusActive, "Austin, TX", "David Wilson", 4.0,
			"Marketing Strategy", "Social Media", "Content Creation"),
		sample(5, "David", "Wilson", "Sales", "Sales Representative", 62000, "2020-11-05", StatusActive, "Seattle, WA", "Amanda Thomas", 4.3,
			"Sales", "Customer Service", "Negotiation"),
		sample(6, "Sarah", "Davis", "Operations", "Operations Manager", 82000, "2018-09-12", StatusActive, "Boston, MA", "Robert Miller", 4.7,
			"Operations Management", "Process Improvement", "Leadership"),
		sample(7, "Robert", "Miller", "Information Technology", "DevOps Engineer", 88000, "2019-07-22", StatusActive, "Remote", "Sarah Chen", 4.4,
			"DevOps", "Cloud Computing", "Docker", "Kubernetes"),
		sample(8, "Lisa", "Anderson", "Human Resources", "Recruiter", 58000, "2021-04-18", StatusOnLeave, "New York, NY", "Jane Smith", 4.1,
			"Recruiting", "Communication", "Interviewing"),
		sample(9, "James", "Taylor", "Finance", "Accountant", 61000, "2020-08-30", StatusActive, "Chicago, IL", "Michael Johnson", 4.0,
			"Accounting", "Financial Analysis", "Tax Preparation"),
		sample(10, "Amanda", "Thomas", "Marketing", "Digital Marketing Specialist", 59000, "2021-12-01", StatusActive, "Austin, TX", "Emily Brown", 4.2,
			"Digital Marketing", "SEO", "Analytics", "PPC"),
		sample(11, "Alex", "Rodriguez", "Information Technology", "Frontend Developer", 78000, "2021-03-10", StatusActive, "San Francisco, CA", "Sarah Chen", 4.3,
			"React", "Vue.js", "CSS", "JavaScript"),
		sample(12, "Maria", "Garcia", "Information Technology", "Backend Developer", 85000, "2020-05-25", StatusActive, "Remote", "Sarah Chen", 4.6,
			"Python", "Django", "PostgreSQL", "API Development"),
		sample(13, "Kevin", "Chen", "Information Technology", "Data Scientist", 105000, "2019-11-08", StatusActive, "Seattle, WA", "Sarah Chen", 4.8,
			"Python", "Machine Learning", "Data Analysis", "TensorFlow"),
		sample(14, "Rachel", "Thompson", "Information Technology", "UI/UX Designer", 72000, "2022-01-15", StatusActive, "San Francisco, CA", "Sarah Chen", 4.4,
			"UI/UX Design", "Figma", "Adobe Creative Suite", "Prototyping"),
		sample(15, "Daniel", "Kim", "Information Technology", "System Administrator", 70000, "2020-10-12", StatusActive, "Boston, MA", "Sarah Chen", 4.2,
			"Linux", "Windows Server", "Network Administration", "Security"),
		sample(16, "Sophie", "Williams", "Quality Assurance", "QA Engineer", 65000, "2021-08-20", StatusActive, "Remote", "Thomas Anderson", 4.1,
			"Quality Assurance", "Test Automation", "Selenium", "JIRA"),
		sample(17, "Marcus", "Brown", "Information Technology", "Security Analyst", 92000, "2019-04-03", StatusActive, "New York, NY", "Sarah Chen", 4.7,
			"Cybersecurity", "Penetration Testing", "Risk Assessment", "CISSP"),
		sample(18, "Elena", "Petrov", "Information Technology", "Database Administrator", 80000, "2020-12-07", StatusActive, "Chicago, IL", "Sarah Chen", 4.3,
			"SQL", "Oracle", "MySQL", "Database Design"),
		sample(19, "Thomas", "Anderson", "Information Technology", "Cloud Architect", 115000, "2018-06-14", StatusActive, "Seattle, WA", "Sarah Chen", 4.9,
			"AWS", "Azure", "Cloud Architecture", "Microservices"),
		sample(20, "Priya", "Patel", "Information Technology", "Mobile Developer", 83000, "2021-09-22", StatusActive, "Austin, TX", "Sarah Chen", 4.4,
			"React Native", "iOS", "Android", "Flutter"),
	}
}

// sample builds a record; email and phone follow the company pattern.
func sample(id int, first, last, dept, role string, salary int64, hired string, status Status, location, manager string, perf float64, skills ...string) Employee {
	date, err := time.Parse(DateLayout, hired)
	if err != nil {
		panic(fmt.Sprintf("sample %d: %v", id, err))
	}
	return Employee{
		ID:          id,
		FirstName:   first,
		LastName:    last,
		Email:       strings.ToLower(first+"."+last) + "@company.com",
		Phone:       fmt.Sprintf("+1-555-%04d", 100+id),
		Department:  dept,
		Role:        role,
		Salary:      decimal.NewFromInt(salary),
		HireDate:    date,
		Status:      status,
		Location:    location,
		Manager:     manager,
		Skills:      skills,
		Performance: perf,
	}
}
