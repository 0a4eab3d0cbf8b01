package prediction

// Status labels returned with every prediction.
const (
	StatusHighRisk = "High seizure risk"
	StatusNormal   = "Normal EEG pattern"
)

// SeizureRiskMessages is the pool drawn from when the model predicts class 1.
var SeizureRiskMessages = []string{
	"Warning: Seizure may occur soon. Stay safe and alert.",
	"High seizure probability. Alert your caregiver if possible.",
	"Critical: Seizure risk detected. Please take immediate precautions.",
	"Danger: Brain activity indicates potential seizure. Seek medical attention.",
	"Alert: Seizure warning active. Avoid dangerous activities.",
	"Urgent: Seizure probability elevated. Contact your healthcare provider.",
	"Warning: Abnormal brain patterns detected. Stay in safe environment.",
	"High risk: Seizure indicators present. Take prescribed medication if available.",
	"Critical alert: Seizure may be imminent. Lie down in safe area.",
	"Emergency: Seizure risk confirmed. Call emergency services if needed.",
}

// NormalEEGMessages is the pool drawn from when the model predicts class 0.
var NormalEEGMessages = []string{
	"Your brain activity looks stable.",
	"No seizure indicators present at the moment.",
	"EEG patterns appear normal and healthy.",
	"Brain activity is within safe parameters.",
	"No seizure risk detected in current readings.",
	"Your neurological activity is stable.",
	"EEG shows normal brain wave patterns.",
	"No concerning brain activity detected.",
	"Brain function appears to be normal.",
	"Seizure risk assessment: Low probability.",
}
