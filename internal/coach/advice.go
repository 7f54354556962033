package coach

// advice holds the recommendations for one condition group.
type advice struct {
	diet      []string
	exercise  []string
	habits    []string
	warnings  []string
	questions []string
}

type condition string

const (
	heartFailure  condition = "heart_failure"
	hypertension  condition = "hypertension"
	diabetes      condition = "diabetes"
	cholesterol   condition = "cholesterol"
	lung          condition = "lung"
	afib          condition = "afib"
	osteoporosis  condition = "osteoporosis"
	arthritis     condition = "arthritis"
	reflux        condition = "reflux"
	kidneyDisease condition = "kidney"
)

// conditionKeys maps knowledge-base diagnosis keys onto advice groups.
// Matching falls back to these phrases as substrings.
var conditionKeys = []struct {
	phrase string
	group  condition
}{
	{"congestive heart failure", heartFailure},
	{"heart failure", heartFailure},
	{"chf", heartFailure},
	{"high blood pressure", hypertension},
	{"hypertension", hypertension},
	{"htn", hypertension},
	{"diabetes", diabetes},
	{"high cholesterol", cholesterol},
	{"hyperlipidemia", cholesterol},
	{"copd", lung},
	{"asthma", lung},
	{"atrial fibrillation", afib},
	{"afib", afib},
	{"osteoporosis", osteoporosis},
	{"arthritis", arthritis},
	{"gerd", reflux},
	{"reflux", reflux},
	{"chronic kidney disease", kidneyDisease},
	{"ckd", kidneyDisease},
}

var conditionAdvice = map[condition]advice{
	heartFailure: {
		diet: []string{
			"Limit sodium (salt) to less than 2,000 mg per day. Avoid chips, canned soups, deli meats and restaurant food.",
			"Limit fluids to the amount your doctor recommends, often about 2 liters (8 cups) per day.",
		},
		exercise: []string{
			"Walk 10-15 minutes a day as tolerated, and rest when you feel short of breath.",
		},
		habits: []string{
			"Weigh yourself every morning after using the bathroom and before breakfast. Write it down.",
			"Check your ankles and legs for new swelling each day.",
		},
		warnings: []string{
			"Weight gain of 3 pounds in one day or 5 pounds in one week",
			"New or worsening swelling in your legs, ankles, or belly",
			"Shortness of breath that gets worse, especially when lying flat",
		},
		questions: []string{
			"How much fluid should I drink each day?",
			"What weight gain should make me call you?",
		},
	},
	hypertension: {
		diet: []string{
			"Eat more fruits, vegetables, and whole grains, and choose low-sodium foods.",
		},
		exercise: []string{
			"Aim for 30 minutes of moderate activity, like brisk walking, most days of the week.",
		},
		habits: []string{
			"Check your blood pressure at home at the same time each day and keep a log.",
		},
		warnings: []string{
			"Severe headache, blurred vision, or confusion",
		},
		questions: []string{
			"What blood pressure number should I aim for?",
		},
	},
	diabetes: {
		diet: []string{
			"Choose whole grains, vegetables, and lean proteins. Limit sugary drinks, sweets, and white bread.",
			"Eat meals at regular times and do not skip meals.",
		},
		exercise: []string{
			"A short walk after meals can help lower your blood sugar.",
		},
		habits: []string{
			"Check your blood sugar as your doctor advises and write down the results.",
			"Look at your feet every day for cuts, sores, or color changes.",
		},
		warnings: []string{
			"Blood sugar below 70 with shakiness, sweating, or confusion",
			"Very high blood sugar with extreme thirst or frequent urination",
		},
		questions: []string{
			"What A1C and blood sugar numbers should I aim for?",
			"How often should I check my blood sugar at home?",
		},
	},
	cholesterol: {
		diet: []string{
			"Limit fried foods, fatty meats, and full-fat dairy. Choose fish, nuts, beans, and olive oil.",
		},
		exercise: []string{
			"Regular activity, like walking 30 minutes a day, can help raise your 'good' cholesterol.",
		},
		questions: []string{
			"When should I have my cholesterol checked again?",
		},
	},
	lung: {
		exercise: []string{
			"Practice the breathing exercises your care team showed you, and pace yourself during activity.",
		},
		habits: []string{
			"Keep your rescue inhaler with you and note how often you need it.",
			"Avoid smoke, dust, and strong fumes that make breathing harder.",
		},
		warnings: []string{
			"Breathing trouble that does not improve after using your rescue inhaler",
			"Lips or fingertips turning blue or gray",
		},
		questions: []string{
			"Am I using my inhaler the right way?",
		},
	},
	afib: {
		habits: []string{
			"Check your pulse each day and note if it feels fast or irregular.",
		},
		warnings: []string{
			"A racing or pounding heartbeat with dizziness or fainting",
			"Sudden face drooping, arm weakness, or trouble speaking (possible stroke)",
		},
		questions: []string{
			"Do I need a blood thinner, and what should I watch for while taking it?",
		},
	},
	osteoporosis: {
		diet: []string{
			"Get enough calcium and vitamin D from foods like dairy, leafy greens, and fortified cereals.",
		},
		exercise: []string{
			"Weight-bearing exercise such as walking helps keep bones strong.",
		},
		habits: []string{
			"Remove loose rugs and clutter at home to prevent falls.",
		},
		questions: []string{
			"Should I take calcium or vitamin D supplements?",
		},
	},
	arthritis: {
		exercise: []string{
			"Gentle range-of-motion exercises, swimming, or cycling can ease joint stiffness.",
		},
		habits: []string{
			"Use warm or cold packs on sore joints as your doctor advises.",
		},
		questions: []string{
			"Which pain relievers are safe for me to take?",
		},
	},
	reflux: {
		diet: []string{
			"Avoid large meals, spicy foods, and caffeine, and do not eat within 3 hours of bedtime.",
		},
		habits: []string{
			"Raise the head of your bed slightly if heartburn bothers you at night.",
		},
		warnings: []string{
			"Trouble swallowing, vomiting blood, or black stools",
		},
	},
	kidneyDisease: {
		diet: []string{
			"Ask about limits on salt, potassium, and protein that protect your kidneys.",
		},
		habits: []string{
			"Avoid over-the-counter pain relievers like ibuprofen unless your doctor approves.",
		},
		questions: []string{
			"How well are my kidneys working, and how often should they be checked?",
		},
	},
}

// medicationReminders are drug-specific tips keyed by lowercase drug name.
var medicationReminders = map[string]string{
	"furosemide":    "Take your water pill (Furosemide) in the morning so you are not up at night to use the bathroom.",
	"lasix":         "Take your water pill (Lasix) in the morning so you are not up at night to use the bathroom.",
	"metformin":     "Take Metformin with meals to reduce stomach upset.",
	"lisinopril":    "Lisinopril can cause a dry cough or dizziness when standing up. Tell your doctor if this happens.",
	"warfarin":      "Keep every INR blood test appointment while taking Warfarin, and ask before starting any new medicine.",
	"insulin":       "Check your blood sugar before meals and at bedtime while using insulin.",
	"aspirin":       "Take Aspirin with food and tell your doctor about any unusual bruising or bleeding.",
	"levothyroxine": "Take Levothyroxine on an empty stomach, 30-60 minutes before breakfast.",
	"prednisone":    "Take Prednisone with food and do not stop it suddenly without talking to your doctor.",
	"atorvastatin":  "Tell your doctor about unexplained muscle pain while taking Atorvastatin.",
	"albuterol":     "Carry your Albuterol inhaler with you at all times.",
}

const (
	generalDiet      = "Eat a balanced diet with plenty of vegetables, fruits, and whole grains."
	generalExercise  = "Stay active with gentle movement like a daily walk, as your doctor allows."
	generalHabit     = "Keep a written list of your medications and bring it to every appointment."
	generalReminder  = "Use a pill organizer or phone alarm so you do not miss a dose."
	emergencyWarning = "Chest pain, trouble breathing, or sudden weakness: call 911 right away"
	followUpQuestion = "When should I schedule my next follow-up appointment?"
	sideEffectsQ     = "What side effects of my medications should I watch for?"
	reviewMedsQ      = "Can we review all my medications together to check for interactions?"
	testResultsQ     = "What do my test results mean, and when should they be checked again?"
	bpHabit          = "Check your blood pressure at home at the same time each day and keep a log."
	a1cQuestion      = "What A1C and blood sugar numbers should I aim for?"
)
