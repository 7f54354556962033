package knowledge

// DiagnosisInfo is the stored plain-language record for one diagnosis key.
type DiagnosisInfo struct {
	SimpleName  string `json:"simple_name"`
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
}

// Keys are lowercase; lookups lowercase their input.
var diagnoses = map[string]DiagnosisInfo{
	"hypertension": {
		SimpleName:  "High Blood Pressure",
		Explanation: "Your blood pressure is higher than it should be. Think of it like a garden hose with too much water pressure - it puts extra strain on your blood vessels and heart. This is very common and manageable with medication and lifestyle changes.",
		Analogy:     "Like a tire with too much air pressure - it works harder and wears out faster.",
	},
	"high blood pressure": {
		SimpleName:  "High Blood Pressure",
		Explanation: "Your heart is pumping blood with more force than is healthy. Over time, this can damage your blood vessels and organs. The good news: it responds well to treatment.",
		Analogy:     "Like turning up the pressure on a water system - everything works harder.",
	},
	"diabetes": {
		SimpleName:  "High Blood Sugar",
		Explanation: "Your body has trouble managing sugar (glucose) in your blood. This happens because your body either doesn't make enough insulin or doesn't use it well. Left unmanaged, it can affect your eyes, kidneys, nerves, and heart.",
		Analogy:     "Like a key that doesn't fit the lock properly - sugar can't get into your cells where it's needed.",
	},
	"type 2 diabetes": {
		SimpleName:  "Blood Sugar Management Issue",
		Explanation: "Your body's ability to process sugar isn't working as well as it should. This is the most common type of diabetes and can often be managed with lifestyle changes, medication, or both.",
		Analogy:     "Your body's sugar-handling system needs help - like needing reading glasses as you age.",
	},
	"hyperlipidemia": {
		SimpleName:  "High Cholesterol",
		Explanation: "You have too much fat (cholesterol) in your blood. This can build up on artery walls like rust in pipes, making it harder for blood to flow. It's very manageable with diet changes and medication.",
		Analogy:     "Like grease building up in kitchen pipes - it can clog the flow over time.",
	},
	"high cholesterol": {
		SimpleName:  "High Cholesterol",
		Explanation: "There's too much fatty substance in your bloodstream. This can stick to your artery walls and increase heart disease risk. The good news: diet, exercise, and medication can control it.",
		Analogy:     "Think of it like buildup in your arteries, similar to how mineral deposits build up in old pipes.",
	},
	"congestive heart failure": {
		SimpleName:  "Heart Not Pumping Efficiently",
		Explanation: "Your heart isn't pumping blood as well as it should. This can cause fluid to build up in your lungs, legs, and other areas. It's a serious condition but can be managed with the right treatment and lifestyle changes.",
		Analogy:     "Like a pump that's getting tired - it needs support to do its job properly.",
	},
	"chf": {
		SimpleName:  "Heart Failure",
		Explanation: "CHF means Congestive Heart Failure. Your heart muscle has become weakened and can't pump blood efficiently. This causes fluid buildup. With treatment, many people live well with this condition.",
		Analogy:     "Your heart needs help doing its pumping job - like an old pump that needs maintenance.",
	},
	"copd": {
		SimpleName:  "Chronic Lung Disease",
		Explanation: "COPD (Chronic Obstructive Pulmonary Disease) makes it harder to breathe because your airways are inflamed and damaged. It's usually caused by smoking. While it can't be cured, treatment can help you breathe easier.",
		Analogy:     "Like trying to breathe through a narrow straw - your airways are more restricted.",
	},
	"asthma": {
		SimpleName:  "Breathing Condition",
		Explanation: "Your airways can suddenly narrow and swell, making it hard to breathe. Triggers include allergies, exercise, or cold air. With proper medication, most people control it well.",
		Analogy:     "Like a garden hose that occasionally gets kinked - the flow gets restricted.",
	},
	"atrial fibrillation": {
		SimpleName:  "Irregular Heartbeat",
		Explanation: "Your heart beats irregularly instead of in a steady rhythm. This can make you feel tired or short of breath, and it increases stroke risk. Medication can help control the rhythm.",
		Analogy:     "Like a drum beating off-rhythm instead of keeping steady time.",
	},
	"afib": {
		SimpleName:  "Irregular Heartbeat (AFib)",
		Explanation: "AFib is short for Atrial Fibrillation. Your heart's upper chambers quiver instead of beating effectively. This is common as we age and is manageable with medication.",
		Analogy:     "Instead of a steady heartbeat, it's more like a flutter or quiver.",
	},
	"osteoporosis": {
		SimpleName:  "Weak Bones",
		Explanation: "Your bones have become thinner and more fragile, making them easier to break. This is common as we age, especially in women after menopause. Calcium, vitamin D, and certain medications can help.",
		Analogy:     "Like wood that's become brittle with age - it breaks more easily.",
	},
	"arthritis": {
		SimpleName:  "Joint Pain and Stiffness",
		Explanation: "The protective cushioning in your joints has worn down, causing pain, stiffness, and sometimes swelling. While it can't be cured, pain management and movement can help you stay active.",
		Analogy:     "Like a door hinge that's lost its lubrication - it gets stiff and creaky.",
	},
	"gerd": {
		SimpleName:  "Acid Reflux",
		Explanation: "GERD (Gastroesophageal Reflux Disease) means stomach acid frequently flows back into your esophagus, causing heartburn. Diet changes and medication usually control it well.",
		Analogy:     "Like a door that doesn't close properly - stomach acid leaks back up where it shouldn't.",
	},
	"chronic kidney disease": {
		SimpleName:  "Kidney Function Decline",
		Explanation: "Your kidneys aren't filtering waste from your blood as well as they should. This develops slowly over time. Managing blood pressure and blood sugar helps protect your remaining kidney function.",
		Analogy:     "Like a water filter that's getting clogged - it doesn't work as efficiently.",
	},
	"ckd": {
		SimpleName:  "Chronic Kidney Disease",
		Explanation: "CKD means your kidneys are gradually losing their ability to filter blood. Controlling diabetes and blood pressure is key to slowing this down.",
		Analogy:     "Your kidneys are like filters that need extra care to keep working.",
	},
}

// What each drug does, not how to take it.
var medications = map[string]string{
	"lisinopril":    "A blood pressure medication that helps relax your blood vessels, making it easier for your heart to pump blood.",
	"metformin":     "Helps your body use insulin better and lowers blood sugar. Usually the first medication prescribed for Type 2 diabetes.",
	"atorvastatin":  "A 'statin' that lowers cholesterol by reducing how much your liver produces. Helps prevent heart attacks and strokes.",
	"amlodipine":    "Relaxes and widens your blood vessels to lower blood pressure and improve blood flow.",
	"furosemide":    "A 'water pill' (diuretic) that helps your body get rid of extra fluid. Often used for heart failure or high blood pressure.",
	"lasix":         "Another name for Furosemide - a water pill that reduces fluid buildup in your body.",
	"metoprolol":    "A 'beta blocker' that slows your heart rate and reduces blood pressure, making your heart work less hard.",
	"omeprazole":    "Reduces stomach acid production. Helps with heartburn, reflux, and ulcers.",
	"levothyroxine": "Replaces thyroid hormone when your thyroid doesn't make enough. Helps regulate your metabolism and energy.",
	"aspirin":       "A blood thinner that helps prevent blood clots. Often used to reduce heart attack and stroke risk.",
	"warfarin":      "A stronger blood thinner that prevents dangerous blood clots. Requires regular blood tests to monitor.",
	"gabapentin":    "Treats nerve pain and sometimes used for certain seizure types. Helps calm overactive nerves.",
	"prednisone":    "A steroid that reduces inflammation and immune system activity. Powerful but has side effects with long-term use.",
	"insulin":       "Helps move sugar from your blood into your cells. Essential for people whose bodies don't make enough.",
	"albuterol":     "Opens up your airways quickly. Used for asthma or breathing problems - usually in an inhaler.",
}

// Keys are uppercase; lookups uppercase their input.
var abbreviations = map[string]string{
	"BP":   "Blood Pressure",
	"HR":   "Heart Rate",
	"CHF":  "Congestive Heart Failure",
	"COPD": "Chronic Obstructive Pulmonary Disease",
	"CAD":  "Coronary Artery Disease",
	"MI":   "Heart Attack (Myocardial Infarction)",
	"CVA":  "Stroke",
	"HTN":  "Hypertension (High Blood Pressure)",
	"DM":   "Diabetes Mellitus",
	"A1C":  "Average Blood Sugar (over 3 months)",
	"SOB":  "Shortness of Breath",
	"BID":  "Twice a day",
	"TID":  "Three times a day",
	"QD":   "Once a day",
	"PRN":  "As needed",
}
